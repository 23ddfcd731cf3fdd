package contract

// Meta implements the descriptive half of Module and is meant to be embedded
// by concrete module types. Icon and color fall back to the documented
// defaults when left empty.
type Meta struct {
	id          string
	name        string
	description string
	icon        string
	color       string
}

// NewMeta builds a Meta, applying icon/color defaults for empty values.
func NewMeta(id, name, description, icon, color string) Meta {
	if icon == "" {
		icon = DefaultIcon
	}
	if color == "" {
		color = DefaultColor
	}
	return Meta{id: id, name: name, description: description, icon: icon, color: color}
}

func (m Meta) ID() string          { return m.id }
func (m Meta) Name() string        { return m.name }
func (m Meta) Description() string { return m.description }
func (m Meta) Icon() string        { return m.icon }
func (m Meta) Color() string       { return m.color }
