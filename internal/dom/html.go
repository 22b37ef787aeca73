package dom

import (
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pefman/tracker-detail/internal/render"
)

var textPolicy = bluemonday.StrictPolicy()

type nodeVM struct {
	ID    string
	Text  template.HTML
	Class string
	Width template.CSS
}

type rowVM struct {
	Legend      string
	Container   nodeVM
	Bar         nodeVM
	Label       nodeVM
	Count       nodeVM
	Total       nodeVM
	LegendState nodeVM
}

type sectionVM struct {
	TrackerKey    string
	CircleTotal   nodeVM
	CircleSubtext nodeVM
	Rows          []rowVM
}

type pageVM struct {
	Title    string
	Sections []sectionVM
}

// WriteHTML renders the current document as a page that keeps itself up to
// date from the /ws patch stream.
func (d *Document) WriteHTML(w io.Writer, title string) error {
	page := pageVM{Title: title}
	for _, s := range d.Sections() {
		sec := sectionVM{
			TrackerKey:    s.TrackerKey,
			CircleTotal:   d.nodeVM(render.ElementKey(render.KindCircleTotal, "", s.TrackerKey)),
			CircleSubtext: d.nodeVM(render.ElementKey(render.KindCircleSubtext, "", s.TrackerKey)),
		}
		for _, legend := range s.Legends {
			sec.Rows = append(sec.Rows, rowVM{
				Legend:      legend,
				Container:   d.nodeVM(render.ElementKey(render.KindProgressContainer, legend, s.TrackerKey)),
				Bar:         d.nodeVM(render.ElementKey(render.KindProgressBar, legend, s.TrackerKey)),
				Label:       d.nodeVM(render.ElementKey(render.KindLabel, legend, s.TrackerKey)),
				Count:       d.nodeVM(render.ElementKey(render.KindCount, legend, s.TrackerKey)),
				Total:       d.nodeVM(render.ElementKey(render.KindTotal, legend, s.TrackerKey)),
				LegendState: d.nodeVM(render.ElementKey(render.KindLegendState, legend, s.TrackerKey)),
			})
		}
		page.Sections = append(page.Sections, sec)
	}
	return pageTmpl.Execute(w, page)
}

func (d *Document) nodeVM(id string) nodeVM {
	n, _ := d.Node(id)
	return nodeVM{
		ID:    id,
		Text:  template.HTML(textPolicy.Sanitize(n.Text)),
		Class: strings.Join(n.Classes, " "),
		Width: template.CSS(sanitizeWidth(n.Width)),
	}
}

// sanitizeWidth only lets through the "<digits>%" values the renderer writes.
func sanitizeWidth(w string) string {
	num := strings.TrimSuffix(w, "%")
	if num == "" || num == w {
		return "0%"
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return "0%"
		}
	}
	return w
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: system-ui; background: #1a1a2e; color: #eee; padding: 2rem; }
        .tracker { background: #16213e; padding: 1rem; border-radius: 8px; margin: 1rem 0; }
        .circle { font-size: 2rem; }
        .progress { background: #333; border-radius: 4px; height: 0.75rem; margin: 0.25rem 0 0.75rem; }
        .progress .bar { background: #60a5fa; height: 100%; border-radius: 4px; }
        .progress-bar-tracker-state-missing .bar { background: #f87171; }
        .progress-bar-tracker-state-old .bar { background: #fbbf24; }
        .progress-bar-tracker-state-current .bar { background: #4ade80; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
{{range .Sections}}
    <div class="tracker" data-tracker-key="{{.TrackerKey}}">
        <h2>{{.TrackerKey}}</h2>
        <div class="circle"><span id="{{.CircleTotal.ID}}">{{.CircleTotal.Text}}</span></div>
        <div id="{{.CircleSubtext.ID}}">{{.CircleSubtext.Text}}</div>
{{range .Rows}}
        <div class="row" data-legend="{{.Legend}}">
            <span id="{{.Label.ID}}">{{.Label.Text}}</span>
            <span id="{{.Count.ID}}">{{.Count.Text}}</span> /
            <span id="{{.Total.ID}}">{{.Total.Text}}</span>
            <small id="{{.LegendState.ID}}">{{.LegendState.Text}}</small>
            <div id="{{.Container.ID}}" class="progress {{.Container.Class}}">
                <div id="{{.Bar.ID}}" class="bar" style="width: {{.Bar.Width}}"></div>
            </div>
        </div>
{{end}}
    </div>
{{end}}
    <script>
        const stateClasses = [
            "progress-bar-tracker-state-missing",
            "progress-bar-tracker-state-old",
            "progress-bar-tracker-state-current"
        ];
        function applyPatch(p) {
            const el = document.getElementById(p.id);
            if (!el) { return; }
            switch (p.op) {
            case "text": el.textContent = p.value; break;
            case "add_class": el.classList.add(p.value); break;
            case "remove_class": el.classList.remove(p.value); break;
            case "width": el.style.width = p.value; break;
            }
        }
        function applyNode(n) {
            const el = document.getElementById(n.id);
            if (!el) { return; }
            if (el.classList.contains("bar")) {
                el.style.width = n.width;
            } else if (!el.classList.contains("progress")) {
                el.textContent = n.text;
            }
            const classes = n.classes || [];
            stateClasses.forEach(function (c) {
                if (classes.indexOf(c) < 0) { el.classList.remove(c); }
            });
            classes.forEach(function (c) { el.classList.add(c); });
        }
        const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
        ws.onmessage = function (ev) {
            const m = JSON.parse(ev.data);
            if (m.type === "patch") { applyPatch(m.data); }
            if (m.type === "snapshot") { m.data.forEach(applyNode); }
        };
    </script>
</body>
</html>
`))
