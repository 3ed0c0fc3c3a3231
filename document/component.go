// Package document implements the declarative Document/Component tree
// (spec.md §3), its JSON schema, and lowering to the ir op stream
// (spec.md §4.3). Components are a closed tagged sum, matched and
// lowered one case at a time; there is no open plugin surface.
package document

// Size is the character-expansion multiplier pair (H, W, 1-8 each) a
// text component can request. In JSON it decodes only from an object
// with "H" and "W" fields; the 0-3 shorthand in namedSizes and a bare
// [h, w] array are not accepted. A nil *Size means "use the
// component's default size".
type Size struct {
	H, W byte
}

// namedSizes maps the 0-3 shorthand to an (h, w) expansion pair.
var namedSizes = [4]Size{
	{H: 1, W: 1}, // 0: normal
	{H: 2, W: 2}, // 1: double
	{H: 2, W: 1}, // 2: tall
	{H: 1, W: 2}, // 3: wide
}

// Component is the closed sum of document building blocks. Each
// concrete type below is value-typed and consumed by Lower without
// mutation of the source Document.
type Component interface {
	componentTag() string
}

// Text is a free-form styled line or paragraph.
type Text struct {
	Content    string `json:"content"`
	Bold       bool   `json:"bold,omitempty"`
	Underline  bool   `json:"underline,omitempty"`
	Upperline  bool   `json:"upperline,omitempty"`
	Invert     bool   `json:"invert,omitempty"`
	UpsideDown bool   `json:"upside_down,omitempty"`
	Reduced    bool   `json:"reduced,omitempty"`
	Center     bool   `json:"center,omitempty"`
	Right      bool   `json:"right,omitempty"`
	Size       *Size  `json:"size,omitempty"`
	Font       string `json:"font,omitempty"` // "A" (default), "B", "ibm"
}

func (Text) componentTag() string { return "text" }

// Header is a pre-styled text variant: bold, centered, one size step up.
type Header struct {
	Content string `json:"content"`
}

func (Header) componentTag() string { return "header" }

// Banner is a pre-styled text variant framed by a plain-ASCII box
// spanning the column width. The content is printed at normal size and
// truncated to fit inside the frame; it is not scaled up.
type Banner struct {
	Content string `json:"content"`
}

func (Banner) componentTag() string { return "banner" }

// LineItem lays out name (left) against price (right) at the active
// font's column width.
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (LineItem) componentTag() string { return "line_item" }

// Total right-aligns a label against an amount.
type Total struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

func (Total) componentTag() string { return "total" }

// DividerStyle enumerates the rule characters a Divider may draw.
type DividerStyle string

const (
	DividerDashed DividerStyle = "dashed"
	DividerSolid  DividerStyle = "solid"
	DividerDouble DividerStyle = "double"
	DividerEquals DividerStyle = "equals"
)

// Divider draws a full-width rule.
type Divider struct {
	Style DividerStyle `json:"style,omitempty"` // default dashed
}

func (Divider) componentTag() string { return "divider" }

// Spacer advances the paper without printing. Exactly one of MM,
// Lines, Units should be set; MM takes precedence over Lines over
// Units if more than one is present.
type Spacer struct {
	MM    float64 `json:"mm,omitempty"`
	Lines int     `json:"lines,omitempty"`
	Units int     `json:"units,omitempty"`
}

func (Spacer) componentTag() string { return "spacer" }

// Columns lays out two strings left/right on one line.
type Columns struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

func (Columns) componentTag() string { return "columns" }

// TableBorder selects the box-drawing style a Table uses.
type TableBorder string

const (
	TableBorderNone   TableBorder = "none"
	TableBorderSingle TableBorder = "single"
	TableBorderDouble TableBorder = "double"
)

// Table lays out headers/rows with per-column alignment and an
// optional border.
type Table struct {
	Headers       []string      `json:"headers,omitempty"`
	Rows          [][]string    `json:"rows"`
	Align         []TableAlign  `json:"align,omitempty"` // per column, default left
	Border        TableBorder   `json:"border,omitempty"`
	RowSeparators bool          `json:"row_separators,omitempty"`
}

// TableAlign is a single column's text alignment within a Table.
type TableAlign string

const (
	AlignColLeft   TableAlign = "left"
	AlignColCenter TableAlign = "center"
	AlignColRight  TableAlign = "right"
)

func (Table) componentTag() string { return "table" }

// Markdown is a restricted inline-markdown block (headings, bold,
// italic, bullet/numbered lists).
type Markdown struct {
	Content string `json:"content"`
}

func (Markdown) componentTag() string { return "markdown" }

// QRCode is a 2D barcode payload.
type QRCode struct {
	Payload string `json:"payload"`
	Size    int    `json:"size,omitempty"` // module size, 1-16
	ECLevel string `json:"ec_level,omitempty"`
}

func (QRCode) componentTag() string { return "qr_code" }

// PDF417 is a 2D stacked barcode payload.
type PDF417 struct {
	Payload string `json:"payload"`
	Columns int    `json:"columns,omitempty"`
	Rows    int    `json:"rows,omitempty"`
}

func (PDF417) componentTag() string { return "pdf417" }

// HRIPosition selects where (if anywhere) a 1D barcode's human-readable
// digits print relative to the bars.
type HRIPosition string

const (
	HRINone  HRIPosition = "none"
	HRIAbove HRIPosition = "above"
	HRIBelow HRIPosition = "below"
	HRIBoth  HRIPosition = "both"
)

// Barcode is a 1D symbology payload.
type Barcode struct {
	Kind         string      `json:"kind"` // code128, code39, ean13, upca, itf
	Payload      string      `json:"payload"`
	HRIPosition  HRIPosition `json:"hri_position,omitempty"`
	ModuleWidth  int         `json:"module_width,omitempty"`
	ModuleHeight int         `json:"module_height,omitempty"`
}

func (Barcode) componentTag() string { return "barcode" }

// ImageAlign selects an image component's horizontal placement.
type ImageAlign string

const (
	ImageAlignLeft   ImageAlign = "left"
	ImageAlignCenter ImageAlign = "center"
	ImageAlignRight  ImageAlign = "right"
)

// Image fetches pixels from a host-supplied URL and rasterizes them.
type Image struct {
	URL        string     `json:"url"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"` // optional height cap
	Align      ImageAlign `json:"align,omitempty"`
	DitherMode string     `json:"dither,omitempty"` // "", "none","bayer","floyd_steinberg","atkinson","jarvis_judice_ninke","auto"
}

func (Image) componentTag() string { return "image" }

// Pattern invokes a named procedural generator.
type Pattern struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params,omitempty"`
	Height int                    `json:"height"`
}

func (Pattern) componentTag() string { return "pattern" }

// Position is a canvas child's absolute placement, canvas-local.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CanvasChild pairs one nested component with its canvas-specific
// placement metadata. A nil Position means flow layout.
type CanvasChild struct {
	Component Component
	Position  *Position
	Blend     string // "", "normal","multiply","screen","overlay","add","difference","min","max"
	Opacity   float64
}

// Canvas composites nested children over a shared frame buffer.
type Canvas struct {
	Children   []CanvasChild `json:"-"`
	Height     int           `json:"height,omitempty"` // 0 means auto
	DitherMode string        `json:"dither,omitempty"`
}

func (Canvas) componentTag() string { return "canvas" }

// NvLogo recalls a 2-ASCII-byte printer-resident graphic.
type NvLogo struct {
	Key    string `json:"key"` // exactly two printable ASCII bytes
	ScaleX int    `json:"scale_x,omitempty"`
	ScaleY int    `json:"scale_y,omitempty"`
}

func (NvLogo) componentTag() string { return "nv_logo" }

// CashDrawerPulse is the document trailer that kicks a cash drawer at
// the end of the receipt, just before the cut (SPEC_FULL.md §6
// supplement).
type CashDrawerPulse struct {
	Pin   int `json:"pin"`
	OnMS  int `json:"on_ms"`
	OffMS int `json:"off_ms"`
}
