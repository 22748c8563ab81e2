package orders

import (
	"sort"
	"strconv"
	"strings"
)

// FieldErrors maps field keys such as "items.2.quantity" to messages.
// The order API uses the same keys in its validation responses.
type FieldErrors map[string][]string

// ItemKey builds the key of a line field.
func ItemKey(index int, field string) string {
	return "items." + strconv.Itoa(index) + "." + field
}

// Add appends a message for key.
func (f FieldErrors) Add(key, msg string) {
	f[key] = append(f[key], msg)
}

// ParseFieldKey splits "items.<index>.<field>". ok is false for keys that do
// not address a line, such as "supplier_id" or "items".
func ParseFieldKey(key string) (index int, field string, ok bool) {
	parts := strings.SplitN(key, ".", 3)
	if len(parts) != 3 || parts[0] != "items" || parts[2] == "" {
		return 0, "", false
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return 0, "", false
	}
	return index, parts[2], true
}

// ForLine returns the errors of one line keyed by field name.
func (f FieldErrors) ForLine(index int) map[string][]string {
	out := make(map[string][]string)
	for key, msgs := range f {
		i, field, ok := ParseFieldKey(key)
		if !ok || i != index {
			continue
		}
		out[field] = append(out[field], msgs...)
	}
	return out
}

// OrderLevel returns the errors that do not belong to a line.
func (f FieldErrors) OrderLevel() map[string][]string {
	out := make(map[string][]string)
	for key, msgs := range f {
		if _, _, ok := ParseFieldKey(key); ok {
			continue
		}
		out[key] = append(out[key], msgs...)
	}
	return out
}

// Lines returns the sorted indexes of lines that have errors.
func (f FieldErrors) Lines() []int {
	seen := make(map[int]struct{})
	for key := range f {
		if i, _, ok := ParseFieldKey(key); ok {
			seen[i] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
