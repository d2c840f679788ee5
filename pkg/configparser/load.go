package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a YAML file and loads its leaves into the environment.
// Nested keys are joined with "_" and upper-cased: database.host -> DATABASE_HOST.
// Variables already present in the environment are never overwritten.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	vars, err := readYaml(file)
	if err != nil {
		return err
	}

	for key, value := range vars {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}
	return nil
}

// readYaml flattens a simple indentation based YAML document into KEY=value pairs.
func readYaml(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	scanner := bufio.NewScanner(r)

	var (
		prefixStack    []string
		indentStack    []int
		previousIndent int
	)

	for scanner.Scan() {
		line := scanner.Text()

		content := strings.TrimSpace(line)
		if content == "" || strings.HasPrefix(content, "#") {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent < previousIndent {
			for len(indentStack) > 0 && indentStack[len(indentStack)-1] >= indent {
				indentStack = indentStack[:len(indentStack)-1]
				prefixStack = prefixStack[:len(prefixStack)-1]
			}
		}
		previousIndent = indent

		// section
		if strings.HasSuffix(content, ":") && !strings.Contains(content, ": ") {
			prefixStack = append(prefixStack, strings.TrimSuffix(content, ":"))
			indentStack = append(indentStack, indent)
			continue
		}

		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripComment(strings.TrimSpace(value))
		if value == "" {
			continue
		}

		value = expandValue(strings.Trim(value, `"'`))

		fullKey := strings.ToUpper(strings.Join(append(append([]string{}, prefixStack...), key), "_"))
		vars[fullKey] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	return vars, nil
}

// expandValue handles ${VAR:-default} substitution.
func expandValue(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, hasDefault := strings.Cut(inner, ":-")
	if env := os.Getenv(strings.TrimSpace(name)); env != "" {
		return env
	}
	if hasDefault {
		return strings.TrimSpace(def)
	}
	return ""
}

func stripComment(value string) string {
	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, `'`) {
		return value
	}
	if i := strings.Index(value, " #"); i >= 0 {
		return strings.TrimSpace(value[:i])
	}
	return value
}
