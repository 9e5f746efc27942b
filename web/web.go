package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed public
var publicFS embed.FS

var funcs = template.FuncMap{
	"price": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}

// Templates parses every page and partial. Pages are addressed by file name,
// e.g. "sellerDash.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Public returns the static assets served under /public.
func Public() http.FileSystem {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

var statusTitles = map[int]string{
	http.StatusBadRequest:            "Bad request",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not found",
	http.StatusRequestEntityTooLarge: "Upload too large",
	http.StatusInternalServerError:   "Something went wrong",
}

// AbortWithError renders the error page and stops the handler chain.
func AbortWithError(c *gin.Context, status int, message string) {
	title, ok := statusTitles[status]
	if !ok {
		title = http.StatusText(status)
	}
	c.HTML(status, "error.html", models.ErrorPage{
		Status:  status,
		Title:   title,
		Message: message,
	})
	c.Abort()
}
