// Command practice runs a timed assessment session in the terminal against a
// Skillport server. It drives the same session controller the web client
// uses: one minute per question, forced submission on timeout, review mode
// after scoring.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minhvu/Skillport/internal/client"
	"github.com/minhvu/Skillport/internal/logger"
	"github.com/minhvu/Skillport/internal/session"
	"github.com/rs/zerolog/log"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "Skillport server base URL")
	subject := flag.String("subject", "", "subject tag (required)")
	diff := flag.String("diff", "", "difficulty: Low, Medium, Hard or Mix (default: last used)")
	count := flag.Int("count", 0, "question count (default: last used, else 10)")
	email := flag.String("email", "", "account email; leave empty to practice anonymously")
	password := flag.String("password", "", "account password")
	flag.Parse()

	logger.Init()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "usage: practice -subject <tag> [-diff Medium] [-count 10] [-email ... -password ...]")
		os.Exit(2)
	}

	ctx := context.Background()
	portal := client.New(*server, "")
	if *email != "" {
		if err := portal.Login(ctx, *email, *password); err != nil {
			log.Fatal().Err(err).Msg("Login failed")
		}
		fmt.Println("Logged in; results will be saved to your profile.")
	} else {
		fmt.Println("Practicing anonymously; the score will not be saved.")
	}

	prefs := session.NewFilePreferences(prefsPath())
	opts := []session.Option{
		session.WithPreferences(prefs),
		session.WithIdentity(portal.Token()),
	}
	ctrl := session.NewController(portal, portal, opts...)
	defer ctrl.Close()

	ctrl.Subscribe(func(ev session.Event) {
		switch ev.Type {
		case session.EventTick:
			if ev.Remaining > 0 && ev.Remaining%60 == 0 {
				fmt.Printf("\n[%d minute(s) remaining]\n", ev.Remaining/60)
			}
		case session.EventError:
			fmt.Printf("\n! %v\n", ev.Err)
		case session.EventStateChanged:
			if ev.State == session.StateSubmitting {
				fmt.Println("\nCalculating results...")
			}
		}
	})

	requested := *count
	if requested == 0 {
		if saved, ok := prefs.Get(); ok && saved.Count > 0 {
			requested = saved.Count
		} else {
			requested = 10
		}
	}
	if err := ctrl.Load(ctx, *subject, session.Difficulty(*diff), requested); err != nil {
		log.Fatal().Err(err).Msg("Failed to load questions")
	}
	if ctrl.State() == session.StateEmpty {
		fmt.Println("No questions found for this configuration.")
		return
	}

	questions := ctrl.Questions()
	fmt.Printf("\n%s: %d questions, %d seconds. Answer with the option number; 'submit' when done.\n",
		*subject, len(questions), ctrl.Remaining())

	runPrompt(ctx, ctrl)
	printReview(ctrl)
}

func runPrompt(ctx context.Context, ctrl *session.Controller) {
	scanner := bufio.NewScanner(os.Stdin)
	for ctrl.State() == session.StateActive {
		questions := ctrl.Questions()
		idx := ctrl.Focus()
		q := questions[idx]
		answers := ctrl.Answers()

		fmt.Printf("\nQ%d/%d: %s\n", idx+1, len(questions), q.Text)
		for i, option := range q.Options {
			marker := " "
			if answers[q.ID] == option {
				marker = "*"
			}
			fmt.Printf("  %s %d) %s\n", marker, i+1, option)
		}
		fmt.Printf("[%d/%d answered, %ds left] > ", len(answers), len(questions), ctrl.Remaining())

		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(strings.ToLower(scanner.Text()))
		switch input {
		case "n", "next", "":
			ctrl.FocusNext()
		case "p", "prev":
			ctrl.FocusPrev()
		case "submit":
			if err := ctrl.Submit(ctx, false); err != nil {
				var incomplete *session.IncompleteError
				if errors.As(err, &incomplete) {
					continue
				}
				fmt.Printf("Submission failed: %v (type 'submit' to retry)\n", err)
			}
		case "q", "quit":
			fmt.Println("Abandoning session.")
			return
		default:
			n, err := strconv.Atoi(input)
			if err != nil {
				fmt.Println("Enter an option number, 'n', 'p', 'submit' or 'quit'.")
				continue
			}
			ctrl.SelectOption(n - 1)
			ctrl.FocusNext()
		}
	}
}

func printReview(ctrl *session.Controller) {
	result := ctrl.Result()
	if result == nil {
		return
	}

	fmt.Printf("\n=== Score: %d/%d (%d%%) ===\n", result.Score, result.TotalQuestions, result.Accuracy)
	if result.ID != 0 {
		fmt.Printf("Saved as result #%d (%s)\n", result.ID, result.Reference)
	}

	for i, review := range ctrl.Review() {
		status := "✗"
		if review.Correct {
			status = "✓"
		}
		fmt.Printf("\n%s Q%d: %s\n", status, i+1, review.Question.Text)
		for j, option := range review.Question.Options {
			switch review.Verdicts[j] {
			case session.VerdictCorrect:
				fmt.Printf("    [correct]  %s\n", option)
			case session.VerdictIncorrectSelection:
				fmt.Printf("    [your pick] %s\n", option)
			default:
				fmt.Printf("               %s\n", option)
			}
		}
		if !review.Answered {
			fmt.Println("    (unanswered)")
		}
		if review.Question.Explanation != "" {
			fmt.Printf("    Explanation: %s\n", review.Question.Explanation)
		}
	}
}

func prefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillport_prefs.json"
	}
	return filepath.Join(home, ".skillport_prefs.json")
}
