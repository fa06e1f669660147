// Package specparser implements the spec_parser tool: it keeps only the
// sentences of a text that mention CPU or GPU specifications.
package specparser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Cyclone1070/rizz/internal/tool"
)

const (
	Name            = "spec_parser"
	DefaultMaxLines = 8
	noSpecsFound    = "No specs found"
)

// HardwareType selects the keyword set.
type HardwareType string

const (
	CPU HardwareType = "cpu"
	GPU HardwareType = "gpu"
)

var (
	ErrEmptyText           = errors.New("text is empty")
	ErrInvalidHardwareType = errors.New("hardware_type must be cpu or gpu")
)

var cpuKeywords = []string{
	"cores", "threads", "ghz", "mhz", "cache", "tdp", "socket", "nm",
	"architecture", "base clock", "boost clock", "turbo", "l1", "l2", "l3",
	"pcie", "ddr", "ram",
}

var gpuKeywords = []string{
	"cuda", "stream processors", "memory", "vram", "gb", "gddr", "bandwidth",
	"clock", "tdp", "watts", "nm", "cores", "ray tracing", "tensor", "pcie",
	"bit", "mhz", "ghz",
}

var (
	// A period only ends a sentence when followed by whitespace or the end
	// of the text, so "3.5 GHz" stays in one piece.
	sentenceSplit = regexp.MustCompile(`[.!?]+(?:\s+|$)|\n+`)
	listNumbering = regexp.MustCompile(`^\d+\.\s*`)
)

// Parser filters text down to spec lines.
type Parser struct {
	maxLines int
}

func New(maxLines int) *Parser {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Parser{maxLines: maxLines}
}

// Extract returns the matching sentences, one per line, or "No specs found".
// Any hardware type other than gpu uses the CPU keywords.
func (p *Parser) Extract(text string, hw HardwareType) string {
	keywords := cpuKeywords
	if hw == GPU {
		keywords = gpuKeywords
	}

	var lines []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		sentence = strings.TrimSpace(listNumbering.ReplaceAllString(strings.TrimSpace(sentence), ""))
		if sentence == "" {
			continue
		}
		if containsAny(strings.ToLower(sentence), keywords) {
			lines = append(lines, sentence)
			if len(lines) == p.maxLines {
				break
			}
		}
	}

	if len(lines) == 0 {
		return noSpecsFound
	}
	return strings.Join(lines, "\n")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Request is the argument object of the spec_parser tool.
type Request struct {
	Text         string       `json:"text"`
	HardwareType HardwareType `json:"hardware_type"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	switch HardwareType(strings.ToLower(string(r.HardwareType))) {
	case CPU, GPU:
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidHardwareType, r.HardwareType)
	}
}

// Spec returns the spec_parser tool backed by p.
func (p *Parser) Spec() tool.Spec {
	return tool.NewTyped(Name,
		"Extract only CPU/GPU specs from text",
		&tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"text": {
					Type:        tool.TypeString,
					Description: "Text containing specs",
				},
				"hardware_type": {
					Type:        tool.TypeString,
					Description: "Type of hardware: cpu or gpu, any case",
				},
			},
			Required: []string{"text", "hardware_type"},
		},
		func(_ context.Context, req Request) (string, error) {
			return p.Extract(req.Text, HardwareType(strings.ToLower(string(req.HardwareType)))), nil
		},
	)
}
