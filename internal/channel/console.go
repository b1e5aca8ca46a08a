package channel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConsoleUser is the fixed user id for the console channel.
const ConsoleUser = "console_user"

// Console is a stdin/stdout REPL, used for local runs and demos.
type Console struct {
	handle Handler
	in     io.Reader
	out    io.Writer
}

func NewConsole(handle Handler) *Console {
	return &Console{
		handle: handle,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

func (c *Console) Name() string {
	return "console"
}

func (c *Console) Start(ctx context.Context) error {
	fmt.Fprintln(c.out, "parley console — type 'quit' to exit")
	fmt.Fprintln(c.out, "try: \"weather in Tokyo\", \"learn capital_of_france = Paris\", \"what is the capital_of_france?\"")
	fmt.Fprintln(c.out)

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "[you] → ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		switch strings.ToLower(text) {
		case "quit", "exit", "q":
			fmt.Fprintln(c.out, "bye!")
			return nil
		}

		response := c.handle(ctx, ConsoleUser, text)
		c.Send(ConsoleUser, response)
	}
}

func (c *Console) Send(recipientID, message string) error {
	_, err := fmt.Fprintf(c.out, "[bot] → %s\n", message)
	return err
}
