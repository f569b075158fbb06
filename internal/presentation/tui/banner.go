package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the deskhand ASCII banner with the version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	s1 := termenv.String("     _           _    _                     _ ").Foreground(p.Color("#38bdf8"))
	s2 := termenv.String("  __| | ___  ___| | _| |__   __ _ _ __   __| |").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" / _` |/ _ \\/ __| |/ / '_ \\ / _` | '_ \\ / _` |").Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String("| (_| |  __/\\__ \\   <| | | | (_| | | | | (_| |").Foreground(p.Color("#34d399"))
	s5 := termenv.String(" \\__,_|\\___||___/_|\\_\\_| |_|\\__,_|_| |_|\\__,_|").Foreground(p.Color("#4ade80"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
	fmt.Println(termenv.String(" deskhand " + version).Foreground(p.Color("#94a3b8")).Italic())
	fmt.Println()
}
