package theme

import (
	"fmt"
)

// Banner returns the start screen banner.
func Banner() string {
	const cyan = "\033[36m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	art := "" +
		cyan + "   ___  ___  _    _____                _\n" + reset +
		cyan + "  / __|/ _ \\| |  |_   _|_ __ _____ ___| |_\n" + reset +
		cyan + "  \\__ \\ (_) | |__  | | \\ V  V / -_) -_)  _|\n" + reset +
		cyan + "  |___/\\__\\_\\____| |_|  \\_/\\_/\\___\\___|\\__|\n" + reset +
		yellow + "  ─────────────────────────────────────────\n" + reset +
		"   short posts, straight from the database\n"
	return art
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}
