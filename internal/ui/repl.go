// Package ui is the interactive terminal front end for the assistant.
package ui

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/campuspilot/campuspilot/internal/router"
)

// REPL represents the interactive chat interface.
type REPL struct {
	router   *router.Router
	callerID int64
	version  string
	history  []string
}

// NewREPL creates a new chat REPL acting as the given caller.
func NewREPL(r *router.Router, callerID int64, version string) *REPL {
	return &REPL{
		router:   r,
		callerID: callerID,
		version:  version,
		history:  []string{},
	}
}

// Start begins the interactive chat loop.
func (repl *REPL) Start() error {
	fmt.Printf("CampusPilot v%s - Student Assistant\n", repl.version)
	fmt.Println("Ask about attendance, marks, fees, courses, assignments or notices.")
	fmt.Println("Type '/help' for commands, '/exit' to quit.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("you> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		repl.history = append(repl.history, input)

		if strings.HasPrefix(input, "/") {
			if done := repl.handleCommand(input); done {
				fmt.Println("Goodbye!")
				return nil
			}
			continue
		}

		repl.ask(input)
	}
}

// Ask runs one query non-interactively.
func (repl *REPL) Ask(query string) error {
	resp, err := repl.router.HandleChat(context.Background(), repl.callerID, query)
	if err != nil {
		return err
	}
	fmt.Printf("[%s] %s\n", resp.QueryType, resp.Response)
	return nil
}

func (repl *REPL) ask(query string) {
	resp, err := repl.router.HandleChat(context.Background(), repl.callerID, query)
	if err != nil {
		fmt.Printf("Error: %v\n\n", err)
		return
	}
	fmt.Printf("\n[%s]\n%s\n\n", resp.QueryType, resp.Response)
}

// handleCommand processes a slash command; returns true on exit.
func (repl *REPL) handleCommand(input string) bool {
	switch strings.Fields(input)[0] {
	case "/exit", "/quit":
		return true
	case "/help":
		repl.showHelp()
	case "/status":
		repl.showStatus()
	case "/info":
		repl.showInfo()
	default:
		fmt.Printf("Unknown command: %s (try /help)\n", input)
	}
	return false
}

func (repl *REPL) showHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /status  - classifier health and cache stats")
	fmt.Println("  /info    - assistant capabilities")
	fmt.Println("  /exit    - quit")
	fmt.Println("Anything else is sent to the assistant as a question.")
}

func (repl *REPL) showStatus() {
	status := repl.router.EngineStatus()
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func (repl *REPL) showInfo() {
	info := router.AssistantInfo(repl.version)
	fmt.Printf("%s v%s\n", info.Name, info.Version)
	fmt.Println("Capabilities:")
	for _, c := range info.Capabilities {
		fmt.Printf("  - %s\n", c)
	}
	fmt.Println("Try:")
	for _, q := range info.ExampleQueries {
		fmt.Printf("  - %s\n", q)
	}
}
