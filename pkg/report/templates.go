package report

import (
	_ "embed"
	"html/template"
	"sync"

	"github.com/Masterminds/sprig/v3"

	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

var (
	//go:embed templates/sizing.html.tmpl
	sizingPage string

	templateOnce   sync.Once
	cachedTemplate *template.Template
	cachedErr      error
)

// htmlTemplate parses and caches the embedded sizing page template.
// Because the template is embedded at build time, it is safe to parse it
// once and reuse the parsed form for the lifetime of the process.
func htmlTemplate() (*template.Template, error) {
	templateOnce.Do(func() {
		cachedTemplate, cachedErr = template.New("sizing").
			Funcs(sprig.HtmlFuncMap()).
			Parse(sizingPage)
	})

	if cachedErr != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "parsing sizing page template", cachedErr)
	}
	if cachedTemplate == nil {
		return nil, errors.New(errors.ErrCodeInternal, "sizing page template not initialized")
	}
	return cachedTemplate, nil
}
