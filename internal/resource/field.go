package resource

// Kind is the type tag of a field descriptor.
type Kind int

const (
	KindInvalid Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindDecimal
	KindString
	KindEmail
	KindURL
	KindUUID
	KindIPAddress
	KindDateTime
	KindDate
	KindTime
	KindDuration
	KindChoice
	KindMultiChoice
	KindPrimaryKeyRelated
	KindSlugRelated
	KindHyperlinkRelated
	KindList
	KindMap
	KindJSON
	KindNested
)

var kindNames = map[Kind]string{
	KindBoolean:           "boolean",
	KindInteger:           "integer",
	KindFloat:             "float",
	KindDecimal:           "decimal",
	KindString:            "string",
	KindEmail:             "email",
	KindURL:               "url",
	KindUUID:              "uuid",
	KindIPAddress:         "ip-address",
	KindDateTime:          "datetime",
	KindDate:              "date",
	KindTime:              "time",
	KindDuration:          "duration",
	KindChoice:            "choice",
	KindMultiChoice:       "multi-choice",
	KindPrimaryKeyRelated: "primary-key-related",
	KindSlugRelated:       "slug-related",
	KindHyperlinkRelated:  "hyperlink-related",
	KindList:              "list",
	KindMap:               "map",
	KindJSON:              "json",
	KindNested:            "nested",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsStringLike reports whether the kind carries free text, which makes the
// length and blank constraints applicable.
func (k Kind) IsStringLike() bool {
	switch k {
	case KindString, KindEmail, KindURL, KindIPAddress:
		return true
	}
	return false
}

// Choice is one selectable value of a choice field. Display is the
// human-readable name shown when it differs from the value.
type Choice struct {
	Value   any
	Display string
}

// IPProtocol restricts an IP address field to one protocol family.
type IPProtocol string

const (
	IPBoth IPProtocol = "" // either family
	IPv4   IPProtocol = "ipv4"
	IPv6   IPProtocol = "ipv6"
)

// Field is the declarative description of one data field belonging to a
// handler's input/output shape: a type tag plus the constraint attributes
// the schema generator maps onto a JSON-Schema fragment.
//
// Only the attributes meaningful for the field's Kind are consulted; the
// rest are ignored.
type Field struct {
	Name string
	Kind Kind

	Required  bool
	ReadOnly  bool
	WriteOnly bool

	// AllowNull accepts an explicit null for the field.
	AllowNull bool

	// AllowBlank accepts the empty string on string-like and choice
	// fields. Off by default, which implies minLength 1.
	AllowBlank bool

	// DisallowEmpty rejects an empty selection/collection on multi-choice,
	// list, and map fields. Empty is allowed by default.
	DisallowEmpty bool

	Label    string
	HelpText string

	// Default is the static default value. DefaultFunc is a computed
	// default, evaluated once at schema-generation time. At most one of
	// the two should be set.
	Default     any
	DefaultFunc func() any

	// String-length constraints. For KindList they bound the item count.
	MaxLength *int
	MinLength *int

	// Numeric value bounds.
	MaxValue *float64
	MinValue *float64

	// Decimal precision.
	MaxDigits     *int
	DecimalPlaces *int

	// Pattern is the validating regular expression, when one is known.
	// Fields validated by function rather than regex leave this empty and
	// document the rule in HelpText.
	Pattern string

	// Choices for KindChoice and KindMultiChoice.
	Choices []Choice

	// Protocol for KindIPAddress.
	Protocol IPProtocol

	// Child is the element descriptor for KindList and KindMap.
	Child *Field

	// Nested is the descriptor set for KindNested.
	Nested *Descriptor

	// Relational attributes for the *Related kinds.
	Many        bool   // many-valued reference
	RefKind     Kind   // identifier kind of the referenced field
	RefName     string // referenced field name (e.g. "id", "username")
	RefResource string // referenced resource name (e.g. "customer")
	ViewName    string // KindHyperlinkRelated: target route name
}

// DefaultValue resolves the field's default, evaluating a computed default
// when one is declared. The second return reports whether any default
// exists.
func (f *Field) DefaultValue() (any, bool) {
	if f.DefaultFunc != nil {
		return f.DefaultFunc(), true
	}
	if f.Default != nil {
		return f.Default, true
	}
	return nil, false
}

// HasDefault reports whether the field declares a static or computed
// default.
func (f *Field) HasDefault() bool {
	return f.Default != nil || f.DefaultFunc != nil
}

// Descriptor is the ordered collection of field descriptors describing one
// resource's full input or output shape.
type Descriptor struct {
	// Name is the resource name the descriptor describes, used in
	// generated descriptions. Optional.
	Name string

	// Many marks a list-shaped descriptor: the payload is an array of the
	// singular shape.
	Many bool

	Fields []Field
}

// ManyOf wraps a descriptor into its list-shaped form.
func ManyOf(d *Descriptor) *Descriptor {
	return &Descriptor{Name: d.Name, Many: true, Fields: d.Fields}
}

// Singular returns the element descriptor of a list-shaped descriptor
// (itself when not list-shaped).
func (d *Descriptor) Singular() *Descriptor {
	if !d.Many {
		return d
	}
	return &Descriptor{Name: d.Name, Fields: d.Fields}
}
