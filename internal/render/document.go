package render

// Element is a single addressable node of a page.
type Element interface {
	SetText(text string)
	AddClass(class string)
	RemoveClass(class string)
	SetWidth(width string)
}

// Document resolves element ids. A missing id reports false and the
// renderer skips that field.
type Document interface {
	Lookup(id string) (Element, bool)
}
