package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"booknerd/internal/discovery"
	"booknerd/internal/library"
	"booknerd/internal/llm"
	"booknerd/internal/taste"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	recStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).PaddingLeft(2)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// runChat is the interactive discovery chat loop. Conversation history
// lives here, in the caller, and is passed into every turn; the engine
// never keeps it.
func runChat() error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.store.Close()

	var client llm.Client
	if app.cfg.LLM.APIKey != "" {
		client, err = llm.NewClient(app.cfg.LLM)
		if err != nil {
			logger.Warn("generative backend unavailable", zap.Error(err))
		}
	} else {
		fmt.Println(dimStyle.Render("No API key configured; recommendations will be limited."))
	}

	var recommender taste.Recommender
	if client != nil {
		recommender = taste.NewLLMRecommender(client)
	}
	engine := discovery.NewEngine(taste.NewLibraryProvider(), recommender, client)

	fmt.Println(assistantStyle.Render("What are you in the mood to read? (ctrl-d or /quit to exit)"))

	var history []library.Turn
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		books, err := app.store.Books()
		if err != nil {
			return err
		}

		resp, err := engine.HandleMessage(context.Background(), line, books, history)
		if err != nil {
			// Downstream failures surface as an apology, not a crash.
			logger.Warn("turn failed", zap.Error(err))
			fmt.Println(assistantStyle.Render("Sorry, something went wrong on my end. Let's try that again."))
			continue
		}

		fmt.Println(assistantStyle.Render(resp.Text))
		for i, rec := range resp.Recommendations {
			fmt.Println(recStyle.Render(fmt.Sprintf("%d. %s by %s", i+1, rec.Title, rec.Author)))
			if rec.Description != "" {
				fmt.Println(recStyle.Render("   " + rec.Description))
			}
			if rec.Reasoning != "" {
				fmt.Println(recStyle.Render(dimStyle.Render("   why: " + rec.Reasoning)))
			}
		}

		history = append(history,
			library.Turn{Role: "user", Content: line},
			library.Turn{Role: "assistant", Content: renderHistoryEntry(resp)},
		)
	}
}

// renderHistoryEntry flattens a response into the plain-text form later
// turns see, so tell-me-more can find recommended titles by name.
func renderHistoryEntry(resp *discovery.Response) string {
	parts := []string{resp.Text}
	for _, rec := range resp.Recommendations {
		parts = append(parts, fmt.Sprintf("%s by %s", rec.Title, rec.Author))
	}
	return strings.Join(parts, " ")
}
