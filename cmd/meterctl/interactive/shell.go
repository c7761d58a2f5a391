// Package interactive provides the readline-driven command shell for
// meterctl, issuing local requests against a running gatewayd's HTTP
// API.
package interactive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chzyer/readline"
)

// Shell issues HTTP requests against a gatewayd's local API and prints
// the formatted response, the Go rendering of the device interactive
// loop's read/write/inspect commands against this project's route
// table instead of a MASH attribute tree.
type Shell struct {
	baseURL string
	client  *http.Client
}

// New builds a Shell targeting baseURL (e.g. "http://127.0.0.1:8080").
func New(baseURL string) *Shell {
	return &Shell{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Run starts the interactive command loop, reading from a readline
// instance until the user quits or io.EOF is reached (Ctrl-D).
func (s *Shell) Run() error {
	rl, err := readline.New("meterctl> ")
	if err != nil {
		return fmt.Errorf("meterctl: start readline: %w", err)
	}
	defer rl.Close()

	s.printHelp()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()
		case "get":
			s.cmdGet(args)
		case "post":
			s.cmdPost(args)
		case "wifi-status":
			s.cmdGet([]string{"/api/wifi"})
		case "wifi-scan":
			s.cmdPost([]string{"/api/wifi/scan"})
		case "system":
			s.cmdGet([]string{"/api/system"})
		case "reboot":
			s.cmdPost([]string{"/api/system/reboot"})
		case "debug":
			s.cmdGet([]string{"/api/debug"})
		case "crypto":
			s.cmdGet([]string{"/api/crypto"})
		case "name":
			s.cmdGet([]string{"/api/name"})
		case "p1":
			s.cmdGet([]string{"/api/data/p1/obis"})
		case "ota-status":
			s.cmdGet([]string{"/api/ota/status"})
		case "ota-update":
			s.cmdPost([]string{"/api/ota/update"})
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Print(`
meterctl commands:
  Generic:
    get <path>           - issue a raw GET against the local API
    post <path> [json]   - issue a raw POST with an optional JSON body

  Shortcuts:
    system, wifi-status, wifi-scan, debug, crypto, name, p1,
    ota-status, ota-update, reboot

  General:
    help                 - show this help
    quit                 - exit the shell
`)
}

func (s *Shell) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: get <path>")
		return
	}
	s.request(http.MethodGet, args[0], nil)
}

func (s *Shell) cmdPost(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: post <path> [json body]")
		return
	}
	var body io.Reader
	if len(args) > 1 {
		body = strings.NewReader(strings.Join(args[1:], " "))
	}
	s.request(http.MethodPost, args[0], body)
}

func (s *Shell) request(method, path string, body io.Reader) {
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("error reading response: %v\n", err)
		return
	}

	fmt.Printf("%d %s\n", resp.StatusCode, prettyJSON(data))
}

// prettyJSON re-indents data if it's a JSON object or array, returning
// it unchanged otherwise (e.g. plain-text error bodies).
func prettyJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
