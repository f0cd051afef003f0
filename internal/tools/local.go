package tools

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// cityZones maps common city and country names to IANA timezones, so the
// model can ask for "time in mumbai" without knowing zone identifiers.
var cityZones = map[string]string{
	"hyderabad":   "Asia/Kolkata",
	"mumbai":      "Asia/Kolkata",
	"delhi":       "Asia/Kolkata",
	"bangalore":   "Asia/Kolkata",
	"chennai":     "Asia/Kolkata",
	"kolkata":     "Asia/Kolkata",
	"india":       "Asia/Kolkata",
	"new york":    "America/New_York",
	"los angeles": "America/Los_Angeles",
	"london":      "Europe/London",
	"paris":       "Europe/Paris",
	"tokyo":       "Asia/Tokyo",
	"sydney":      "Australia/Sydney",
	"dubai":       "Asia/Dubai",
	"singapore":   "Asia/Singapore",
	"hong kong":   "Asia/Hong_Kong",
}

func multiplyTool() Tool {
	return Tool{
		Name:        "multiply",
		Description: "Multiply two integers.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "integer"},
				"b": map[string]any{"type": "integer"},
			},
			"required": []string{"a", "b"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			a, err := intArg(args, "a")
			if err != nil {
				return "", err
			}
			b, err := intArg(args, "b")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d", a*b), nil
		},
	}
}

func currentTimeTool() Tool {
	return Tool{
		Name: "current_time",
		Description: "Get the current time in a given timezone. Accepts IANA names " +
			"(e.g. 'America/New_York', 'Asia/Kolkata') and common city names.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"timezone": map[string]any{
					"type":        "string",
					"description": "Timezone name or city",
				},
			},
			"required": []string{"timezone"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			tz, err := stringArg(args, "timezone")
			if err != nil {
				return "", err
			}
			return CurrentTime(tz), nil
		},
	}
}

// CurrentTime resolves a timezone or city name and formats the current
// time there. Unknown zones produce a suggestion message, not an error.
func CurrentTime(timezone string) string {
	name := timezone
	if zone, ok := cityZones[strings.ToLower(strings.TrimSpace(timezone))]; ok {
		name = zone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		suggestions := []string{
			"America/New_York", "America/Los_Angeles", "America/Chicago",
			"Europe/London", "Europe/Paris", "Asia/Kolkata (India)",
			"Asia/Tokyo", "Asia/Dubai", "Asia/Singapore", "Australia/Sydney",
		}
		return fmt.Sprintf("Unknown timezone '%s'. Common timezones include: %s. For Indian cities, use 'Asia/Kolkata'.",
			timezone, strings.Join(suggestions, ", "))
	}

	now := time.Now().In(loc)
	return fmt.Sprintf("Current time in %s: %s", name, now.Format("2006-01-02 15:04:05 MST"))
}

func listDirectoryTool() Tool {
	return Tool{
		Name:        "list_directory",
		Description: "List files in a directory.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string"},
			},
			"required": []string{"path"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			path, err := stringArg(args, "path")
			if err != nil {
				return "", err
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return err.Error(), nil
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			sort.Strings(names)
			return strings.Join(names, "\n"), nil
		},
	}
}

func readFileTool() Tool {
	return Tool{
		Name:        "read_file",
		Description: "Read the contents of a file.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{"type": "string"},
			},
			"required": []string{"file_path"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			path, err := stringArg(args, "file_path")
			if err != nil {
				return "", err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err.Error(), nil
			}
			return string(data), nil
		},
	}
}

func writeFileTool() Tool {
	return Tool{
		Name:        "write_file",
		Description: "Write content to a file.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{"type": "string"},
				"content":   map[string]any{"type": "string"},
			},
			"required": []string{"file_path", "content"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			path, err := stringArg(args, "file_path")
			if err != nil {
				return "", err
			}
			content, err := stringArg(args, "content")
			if err != nil {
				return "", err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err.Error(), nil
			}
			return fmt.Sprintf("Content written to %s", path), nil
		},
	}
}

func replaceInFileTool() Tool {
	return Tool{
		Name:        "replace_in_file",
		Description: "Replace a string in a file with a new string.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path":  map[string]any{"type": "string"},
				"old_string": map[string]any{"type": "string"},
				"new_string": map[string]any{"type": "string"},
			},
			"required": []string{"file_path", "old_string", "new_string"},
		},
		Call: func(ctx context.Context, args map[string]any) (string, error) {
			path, err := stringArg(args, "file_path")
			if err != nil {
				return "", err
			}
			oldStr, err := stringArg(args, "old_string")
			if err != nil {
				return "", err
			}
			newStr, err := stringArg(args, "new_string")
			if err != nil {
				return "", err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err.Error(), nil
			}
			updated := strings.ReplaceAll(string(data), oldStr, newStr)
			if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
				return err.Error(), nil
			}
			return fmt.Sprintf("Replaced '%s' with '%s' in %s", oldStr, newStr, path), nil
		},
	}
}
