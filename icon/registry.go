package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Play Icon = iota
	Pause
	Backward
	Forward
	Success
	Fail
	Progress
	Info
)

var icons = map[Icon]*iconDef{
	Play: {
		emoji:   "▶️",
		nerd:    "\uf04b",
		plain:   ">",
		kaomoji: "(>ω<)",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "\uf04c",
		plain:   "||",
		kaomoji: "(=_=)",
		squares: "⏸",
	},
	Backward: {
		emoji:   "⏪",
		nerd:    "\uf04a",
		plain:   "<<",
		kaomoji: "(<_<)",
		squares: "◀◀",
	},
	Forward: {
		emoji:   "⏩",
		nerd:    "\uf04e",
		plain:   ">>",
		kaomoji: "(>_>)",
		squares: "▶▶",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "\uf00c",
		plain:   "✓",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ*:･ﾟ✧",
		squares: "🟩",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "\uf00d",
		plain:   "X",
		kaomoji: "(╯°□°）╯︵ ┻━┻",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "\uf110",
		plain:   "...",
		kaomoji: "(・_・ヾ",
		squares: "🟨",
	},
	Info: {
		emoji:   "ℹ️",
		nerd:    "\uf129",
		plain:   "i",
		kaomoji: "(・o・)",
		squares: "🟦",
	},
}
