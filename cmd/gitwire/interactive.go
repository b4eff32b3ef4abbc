package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gitwire/client"
)

// runInteractive prompts for commands until EOF or "exit". Malformed
// parameters re-prompt without touching the network; a failed round trip
// is reported and the loop continues.
func runInteractive(cli *client.Client, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, `gitwire interactive mode (type "exit" to quit)`)

	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "command: ")
		if !scanner.Scan() {
			return 0
		}
		command := strings.TrimSpace(scanner.Text())
		if command == "" {
			continue
		}
		if strings.EqualFold(command, "exit") {
			return 0
		}

		fmt.Fprint(stdout, "params (JSON, empty for none): ")
		var paramsLine string
		if scanner.Scan() {
			paramsLine = strings.TrimSpace(scanner.Text())
		}

		var params map[string]any
		if paramsLine != "" {
			if err := json.Unmarshal([]byte(paramsLine), &params); err != nil {
				fmt.Fprintf(stderr, "invalid JSON parameters: %v\n", err)
				continue
			}
		}

		resp, err := cli.Do(context.Background(), command, params)
		if err != nil {
			fmt.Fprintf(stderr, "gitwire: %v\n", err)
			continue
		}

		out, err := resp.Pretty()
		if err != nil {
			fmt.Fprintf(stderr, "gitwire: %v\n", err)
			continue
		}
		fmt.Fprintln(stdout, out)
	}
}
