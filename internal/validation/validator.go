// Validação do formulário de cadastro por tabela de regras.
// Reporta todos os campos com erro de uma vez, um erro por campo.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Werneck0live/company-registration/internal/models"
)

type Validator struct {
	policy  Policy
	schema  Schema
	catalog *Catalog
}

// Catálogo nulo usa as mensagens em japonês.
func New(policy Policy, catalog *Catalog) *Validator {
	if catalog == nil {
		catalog = MustCatalog("ja")
	}
	return &Validator{policy: policy, schema: SchemaFor(policy), catalog: catalog}
}

func (v *Validator) Policy() Policy    { return v.policy }
func (v *Validator) Catalog() *Catalog  { return v.catalog }

// Nunca para no primeiro campo com erro. Dentro de um campo vale a primeira
// regra que falhar; refinamentos rodam sempre, mas só reportam em caminho
// ainda sem erro. Os erros seguem a ordem de declaração dos campos.
func (v *Validator) Validate(form models.CompanyForm) Result {
	value := form
	value.OccupationalDoctors = slices.Clone(form.OccupationalDoctors)
	fields := v.schema.bind(&value)
	for _, b := range fields {
		if b.value != nil {
			*b.value = Normalize(*b.value)
		}
	}

	found := make(map[string]Issue, len(fields))
	for _, b := range fields {
		if b.value == nil || (b.optional && *b.value == "") {
			continue
		}
		for _, r := range b.rules {
			if !r.Check(*b.value) {
				found[b.path] = v.issue(b.path, b.key, r.Code, r.Params)
				break
			}
		}
	}

	for _, r := range v.schema.Refinements {
		if _, taken := found[r.Path]; taken {
			continue
		}
		if !r.Holds(&value) {
			found[r.Path] = v.issue(r.Path, r.Path, r.Code, nil)
		}
	}

	res := Result{Accepted: len(found) == 0, Value: value}
	for _, b := range fields {
		if it, ok := found[b.path]; ok {
			res.Errors = append(res.Errors, it)
		}
	}
	return res
}

// Campo já ligado a um formulário concreto. Listas viram um campo por
// elemento, logo após o caminho da própria lista.
type boundField struct {
	path     string
	key      string
	value    *string
	optional bool
	rules    []Rule
}

func (s Schema) bind(f *models.CompanyForm) []boundField {
	out := make([]boundField, 0, len(s.Fields))
	for _, fd := range s.Fields {
		b := boundField{path: fd.Path, key: fd.Path, optional: fd.Optional, rules: fd.Rules}
		if fd.Get != nil {
			b.value = fd.Get(f)
		}
		out = append(out, b)

		if fd.Items == nil {
			continue
		}
		for i := 0; i < fd.Items.Len(f); i++ {
			for _, it := range fd.Items.Fields {
				out = append(out, boundField{
					path:  fmt.Sprintf("%s.%d.%s", fd.Path, i, it.Key),
					key:   fd.Path + "." + it.Key,
					value: it.Get(f, i),
					rules: it.Rules,
				})
			}
		}
	}
	return out
}

func (v *Validator) issue(path, key, code string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: v.catalog.Issue(key, code, params), Params: params}
}

// Remove espaços Unicode das pontas (U+3000 incluso) e aplica NFC.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
