package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/sells-group/launch-dashboard/internal/dashboard"
	"github.com/sells-group/launch-dashboard/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	Heading  string
	Sites    []model.Site
	Slider   dashboard.Slider
	Controls dashboard.Controls
}

func (s *Server) getIndex(w http.ResponseWriter, _ *http.Request) error {
	data := indexData{
		Heading:  "SpaceX Launch Records Dashboard",
		Sites:    dashboard.SiteOptions(s.table, s.opts.Sites),
		Slider:   s.opts.Slider,
		Controls: s.DefaultControls(),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return eris.Wrap(err, "server: render index")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(buf.Bytes())
	return err
}
