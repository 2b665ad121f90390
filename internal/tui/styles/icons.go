package styles

const (
	StackIcon string = "◆"

	CheckIcon    string = "✓"
	ErrorIcon    string = "✖"
	WarningIcon  string = "⚠"
	InfoIcon     string = "ℹ"
	SelectedIcon string = "●"
	EmptyIcon    string = "○"
	CursorIcon   string = "›"
	StruckIcon   string = "✗"
)
