package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/queue"
)

func main() {
	path := flag.String("path", "./data/boardroom-queue.json", "Path to the queue file")
	conversation := flag.String("conversation", "", "Conversation UUID (enqueue)")
	content := flag.String("content", "", "Message text (enqueue)")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		usage()
	}

	ctx := context.Background()
	store := queue.NewFileStore(*path, zerolog.New(os.Stderr))

	switch cmd {
	case "list":
		msgs, err := store.Pending(ctx)
		if err != nil {
			fatal("failed to read queue: %v", err)
		}
		if len(msgs) == 0 {
			fmt.Println("queue is empty")
			return
		}
		for _, m := range msgs {
			fmt.Printf("%s  conv=%s  attempts=%d  %q\n", m.ID, m.ConversationID, m.Attempts, m.Content)
			if m.LastError != "" {
				fmt.Printf("    last error: %s\n", m.LastError)
			}
		}

	case "count":
		count, err := store.PendingCount(ctx)
		if err != nil {
			fatal("failed to read queue: %v", err)
		}
		fmt.Println(count)

	case "clear":
		if err := store.ClearAll(ctx); err != nil {
			fatal("failed to clear queue: %v", err)
		}
		fmt.Println("queue cleared")

	case "enqueue":
		if *conversation == "" || *content == "" {
			fatal("enqueue requires -conversation and -content")
		}
		payload, _ := json.Marshal(map[string]string{"content": *content})
		msg := store.Enqueue(ctx, *conversation, *content, payload)
		fmt.Printf("queued %s\n", msg.ID)

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: queuectl [-path <queue-file>] <list|count|clear|enqueue>")
	fmt.Fprintln(os.Stderr, "  enqueue also requires -conversation <uuid> -content <text>")
	os.Exit(1)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
