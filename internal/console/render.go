package console

import (
	"fmt"
	"io"

	"github.com/danmuck/calcnet/internal/calc"
	"github.com/danmuck/calcnet/internal/protocol"
)

const (
	msgDivisionByZero = "Error: Division by zero."
	msgServerFailure  = "Error: Operation failed or invalid input on server."
	msgMalformed      = "Server response malformed."
	msgServerClosed   = "Server closed the connection unexpectedly."
)

var menuItems = []struct {
	choice int
	label  string
}{
	{1, "Add"},
	{2, "Subtract"},
	{3, "Multiply"},
	{4, "Divide"},
	{0, "Exit"},
}

func printMenu(w io.Writer, title string) {
	fmt.Fprintln(w, "-------------------------")
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, "-------------------------")
	for _, item := range menuItems {
		fmt.Fprintf(w, "%d. %s\n", item.choice, item.label)
	}
	fmt.Fprintln(w, "-------------------------")
}

// Render turns one exchange into the line shown to the user.
func Render(req protocol.Request, resp protocol.Response) string {
	if resp.OK() {
		return fmt.Sprintf("Result: %.2f", resp.Result)
	}
	if calc.Classify(req, resp) == calc.OutcomeDivisionByZero {
		return msgDivisionByZero
	}
	return msgServerFailure
}
