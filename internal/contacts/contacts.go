package contacts

import (
	"encoding/json"
	"fmt"
	"io"
)

// Contact is an emergency number shown to the operator.
type Contact struct {
	Name  string `yaml:"name" json:"name"`
	Phone string `yaml:"phone" json:"phone"`
}

// Defaults returns the French emergency numbers plus the European 112.
func Defaults() []Contact {
	return []Contact{
		{Name: "Police", Phone: "17"},
		{Name: "Pompiers", Phone: "18"},
		{Name: "Samu", Phone: "15"},
		{Name: "Urgences Européennes", Phone: "112"},
	}
}

// Validate checks a single contact entry.
func (c Contact) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("contact name is required")
	}
	if c.Phone == "" {
		return fmt.Errorf("contact '%s': phone is required", c.Name)
	}
	return nil
}

// FormatTable writes the contacts as a two-column table.
func FormatTable(w io.Writer, list []Contact) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No contacts configured")
		return
	}

	width := len("NAME")
	for _, c := range list {
		if n := len([]rune(c.Name)); n > width {
			width = n
		}
	}

	fmt.Fprintf(w, "%s  %s\n", pad("NAME", width), "PHONE")
	for _, c := range list {
		fmt.Fprintf(w, "%s  %s\n", pad(c.Name, width), c.Phone)
	}
}

// FormatJSON writes the contacts as a JSON array.
func FormatJSON(w io.Writer, list []Contact) error {
	if list == nil {
		list = []Contact{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("failed to write contacts: %w", err)
	}
	return nil
}

// pad right-pads by rune count so accented names stay aligned.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	buf := make([]byte, 0, len(s)+width-n)
	buf = append(buf, s...)
	for i := n; i < width; i++ {
		buf = append(buf, ' ')
	}
	return string(buf)
}
