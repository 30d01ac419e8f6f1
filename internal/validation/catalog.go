package validation

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var messageFiles embed.FS

// Textos por idioma para os códigos de erro.
//
// Busca: fields[chave][código], depois codes[código], depois o próprio código.
// {label} vem do rótulo do campo; {min}, {max} e {value} vêm dos params.
type Catalog struct {
	locale string

	Labels   map[string]string            `yaml:"labels"`
	Codes    map[string]string            `yaml:"codes"`
	Fields   map[string]map[string]string `yaml:"fields"`
	Messages map[string]string            `yaml:"messages"`
}

func LoadCatalog(locale string) (*Catalog, error) {
	raw, err := messageFiles.ReadFile("messages/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q (have %s)", locale, strings.Join(Locales(), ", "))
	}
	c := &Catalog{locale: locale}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("messages/%s.yaml: %w", locale, err)
	}
	return c, nil
}

func MustCatalog(locale string) *Catalog {
	c, err := LoadCatalog(locale)
	if err != nil {
		panic(err)
	}
	return c
}

func Locales() []string {
	entries, _ := messageFiles.ReadDir("messages")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Locale() string { return c.locale }

func (c *Catalog) Label(path string) string {
	if l, ok := c.Labels[path]; ok {
		return l
	}
	return path
}

func (c *Catalog) Issue(path, code string, params map[string]any) string {
	tmpl, ok := c.Fields[path][code]
	if !ok {
		if tmpl, ok = c.Codes[code]; !ok {
			return code
		}
	}
	pairs := []string{"{label}", c.Label(path)}
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Mensagem que não pertence a um campo (resultado do envio, busca de CEP...).
func (c *Catalog) Text(key string) string {
	if m, ok := c.Messages[key]; ok {
		return m
	}
	return key
}
