package play

// ButtonStyle mirrors the button colours a transport can render
type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota
	StyleSecondary
	StyleSuccess
	StyleDanger
)

// Colours used by game views
const (
	ColorNeutral = 0x5865F2
	ColorWin     = 0x57F287
	ColorLose    = 0xED4245
	ColorTie     = 0xFEE75C
	ColorIdle    = 0x99AAB5
)

type Button struct {
	ID       string
	Label    string
	Emoji    string
	Style    ButtonStyle
	Disabled bool
}

type Option struct {
	Label       string
	Value       string
	Description string
	Emoji       string
}

type Select struct {
	ID          string
	Placeholder string
	Options     []Option
	Disabled    bool
}

// Row is one line of controls: either buttons or a single select menu
type Row struct {
	Buttons []Button
	Select  *Select
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// View is the transport-independent rendering of a game state
type View struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Rows        []Row
	Footer      string
}

// Disabled returns a copy of the view with every control disabled
func (v View) Disabled() View {
	rows := make([]Row, len(v.Rows))
	for i, row := range v.Rows {
		if row.Select != nil {
			sel := *row.Select
			sel.Disabled = true
			rows[i].Select = &sel
		}
		if len(row.Buttons) > 0 {
			rows[i].Buttons = make([]Button, len(row.Buttons))
			for j, b := range row.Buttons {
				b.Disabled = true
				rows[i].Buttons[j] = b
			}
		}
	}
	v.Rows = rows
	v.Fields = append([]Field(nil), v.Fields...)
	return v
}

// ButtonRow is shorthand for a row of buttons
func ButtonRow(buttons ...Button) Row {
	return Row{Buttons: buttons}
}
