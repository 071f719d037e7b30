package richview_test

import (
	"context"
	"fmt"

	"v2ex-richview/richview"
)

func ExampleClient_Render() {
	client, err := richview.NewClient(richview.WithQuietMode())
	if err != nil {
		panic(err)
	}
	defer client.Close()

	result, err := client.Render(context.Background(), "<p>Hello <strong>World</strong> @livid</p>")
	if err != nil {
		panic(err)
	}
	fmt.Println(result.Markdown)
	for _, tap := range result.StyledText.Taps {
		fmt.Println(tap.Kind, tap.Value)
	}
	// Output:
	// Hello **World** @livid
	// mention livid
}
