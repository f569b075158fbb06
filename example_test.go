package deskhand_test

import (
	"context"
	"fmt"
	"log"

	"github.com/deskhand-io/deskhand"
)

// Example walks the first turn of a conversation using the in-memory
// defaults.
func Example() {
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
	// Output: Great to meet you, Alice! Now, please describe the issue you're experiencing.
}
