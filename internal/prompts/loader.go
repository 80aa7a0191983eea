// Package prompts holds the instruction templates sent to the collaborator. Each
// embedded JSON file maps a key to a text/template body using {{.Field}} placeholders.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"sync"
	"text/template"
)

//go:embed *.json
var files embed.FS

// set maps file name, then key, to a parsed template.
type set map[string]map[string]*template.Template

var load = sync.OnceValues(func() (set, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}
	all := make(set, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if path.Ext(name) != ".json" {
			continue
		}
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var bodies map[string]string
		if err := json.Unmarshal(data, &bodies); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		parsed := make(map[string]*template.Template, len(bodies))
		for key, body := range bodies {
			tmpl, err := template.New(name + "#" + key).Option("missingkey=error").Parse(body)
			if err != nil {
				return nil, fmt.Errorf("failed to parse prompt %s#%s: %w", name, key, err)
			}
			parsed[key] = tmpl
		}
		all[name] = parsed
	}
	return all, nil
})

func lookup(file, key string) (*template.Template, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	keys, ok := all[file]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", file)
	}
	tmpl, ok := keys[key]
	if !ok {
		return nil, fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return tmpl, nil
}

// Render executes the prompt with data. Every placeholder must have a value.
func Render(file, key string, data map[string]string) (string, error) {
	tmpl, err := lookup(file, key)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s#%s: %w", file, key, err)
	}
	return buf.String(), nil
}

// MustRender is Render for prompts the binary cannot run without.
func MustRender(file, key string, data map[string]string) string {
	text, err := Render(file, key, data)
	if err != nil {
		panic(err)
	}
	return text
}

// Keys lists the prompt keys of a file in sorted order.
func Keys(file string) ([]string, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	prompts, ok := all[file]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", file)
	}
	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
