/*
Package deskhand is a deterministic, rule-based support desk that turns a
guided conversation into a structured support ticket. No language model is
involved: intent classification, field extraction, and step transitions are
all explicit rules, so the same transcript always produces the same ticket.

# Concept

A conversation walks a fixed sequence of steps (greeting, issue collection,
clarification, category confirmation, contact collection, final confirmation).
Each user message is processed as one turn: the engine classifies the input,
updates the collected data, advances the step machine, and renders the next
assistant reply. The engine is pure; persistence, locking, transports, and
ticket storage live behind ports.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/deskhand-io/deskhand"
	)

	func main() {
		desk := deskhand.New()
		ctx := context.Background()

		conv, err := desk.StartConversation(ctx)
		if err != nil {
			log.Fatal(err)
		}

		result, err := desk.HandleUserMessage(ctx, conv.ID, "Alice")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(result.Response.Content)
	}

For multi-replica deployments, wire Redis-backed stores and locking from
internal/adapters/redis via the serve command instead of the in-memory
defaults.
*/
package deskhand
