package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Progress Icon = iota + 1
	Success
	Fail
	Warn
	Play
	Queue
	Stop
	Key
)

var icons = map[Icon]glyphs{
	Progress: {Emoji: "⏳", Nerd: "", Plain: "...", Kaomoji: "(・_・;)", Squares: "◩"},
	Success:  {Emoji: "✅", Nerd: "", Plain: "✓", Kaomoji: "(ᵔ◡ᵔ)", Squares: "■"},
	Fail:     {Emoji: "❌", Nerd: "", Plain: "✗", Kaomoji: "(╥﹏╥)", Squares: "□"},
	Warn:     {Emoji: "⚠️", Nerd: "", Plain: "!", Kaomoji: "(°ロ°)", Squares: "◪"},
	Play:     {Emoji: "🎤", Nerd: "", Plain: ">", Kaomoji: "♪(´▽｀)", Squares: "▶"},
	Queue:    {Emoji: "📜", Nerd: "", Plain: "+", Kaomoji: "(｀・ω・´)", Squares: "▤"},
	Stop:     {Emoji: "🛑", Nerd: "", Plain: "#", Kaomoji: "(－_－) zzZ", Squares: "▪"},
	Key:      {Emoji: "🔑", Nerd: "", Plain: "*", Kaomoji: "(¬‿¬)", Squares: "◆"},
}
