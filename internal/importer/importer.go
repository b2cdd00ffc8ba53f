// Package importer decodes the CLI's bulk-add input formats (TSV and
// newline-delimited JSON) into NewMessages, applying configured state
// overrides and skipping malformed lines with a logged warning rather than
// aborting the whole import.
package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/canac/mailbox/internal/config"
	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/mailerr"
	"github.com/canac/mailbox/internal/store"
)

// Format selects the bulk-add line syntax.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

// ParseFormat decodes the --format flag.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTSV, FormatJSON:
		return Format(s), nil
	default:
		return "", mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("invalid import format %q", s))
	}
}

// jsonLine is the newline-delimited JSON shape: {"mailbox":…, "content":…,
// "state"?:…}.
type jsonLine struct {
	Mailbox string      `json:"mailbox"`
	Content string      `json:"content"`
	State   *store.State `json:"state,omitempty"`
}

// Import reads format-encoded lines from r, applying overrides to each
// successfully-parsed message's initial state (dropping any that resolve
// to "ignored"). Malformed lines are logged to logger and skipped rather
// than aborting the import.
func Import(r io.Reader, format Format, overrides config.Overrides, logger *slog.Logger) ([]store.NewMessage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var messages []store.NewMessage
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		msg, err := parseLine(line, format)
		if err != nil {
			logger.Warn("skipping malformed import line", "line", lineNum, "error", err)
			continue
		}

		if action, ok := overrides.Resolve(msg.Mailbox); ok {
			if action.Ignored {
				continue
			}
			state := action.State
			msg.State = &state
		}

		messages = append(messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("reading import input: %w", err))
	}
	return messages, nil
}

func parseLine(line string, format Format) (store.NewMessage, error) {
	switch format {
	case FormatJSON:
		return parseJSONLine(line)
	default:
		return parseTSVLine(line)
	}
}

func parseTSVLine(line string) (store.NewMessage, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return store.NewMessage{}, mailerr.Wrap(mailerr.KindValidation,
			fmt.Errorf("expected at least mailbox and content, got %d fields", len(fields)))
	}

	mb, err := mailbox.Parse(fields[0])
	if err != nil {
		return store.NewMessage{}, err
	}
	msg := store.NewMessage{Mailbox: mb, Content: fields[1]}

	if len(fields) >= 3 && fields[2] != "" {
		state, err := store.ParseState(fields[2])
		if err != nil {
			return store.NewMessage{}, err
		}
		msg.State = &state
	}
	return msg, nil
}

func parseJSONLine(line string) (store.NewMessage, error) {
	var decoded jsonLine
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		return store.NewMessage{}, mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("invalid JSON: %w", err))
	}

	mb, err := mailbox.Parse(decoded.Mailbox)
	if err != nil {
		return store.NewMessage{}, err
	}
	return store.NewMessage{Mailbox: mb, Content: decoded.Content, State: decoded.State}, nil
}
