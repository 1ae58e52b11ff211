package webadmin

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/wearevirtua/catalog/internal/domain"
	"github.com/wearevirtua/catalog/internal/imagestore"
)

const sessionName = "catalog_session"

// flash queues a notice message in the session so the next page load can
// report the outcome after a redirect.
func flash(c echo.Context, message string) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(message, "notice")
	_ = sess.Save(c.Request(), c.Response())
}

func popFlashes(c echo.Context) []interface{} {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	notices := sess.Flashes("notice")
	_ = sess.Save(c.Request(), c.Response())
	return notices
}

// handleError maps the error taxonomy onto the admin surface: validation
// failures flash and bounce back, unknown ids 404, bad tokens 403.
func handleError(c echo.Context, err error, backURL string) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, msg := range verr.Fields {
			flash(c, msg)
		}
		return c.Redirect(http.StatusFound, backURL)
	}
	var nferr *domain.NotFoundError
	if errors.As(err, &nferr) {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found.")
	}
	var aerr *domain.AuthorizationError
	if errors.As(err, &aerr) {
		return echo.NewHTTPError(http.StatusForbidden, aerr.Reason)
	}
	return err
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formUpload(c echo.Context, field string) (*imagestore.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// not a multipart request, or the field was left empty
		return nil, nil
	}
	return readUpload(fh)
}

func formUploads(c echo.Context, field string) ([]imagestore.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// plain form posts carry no multipart body
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Malformed upload")
	}
	var uploads []imagestore.Upload
	for _, fh := range form.File[field] {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, *u)
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (*imagestore.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &imagestore.Upload{Filename: fh.Filename, Data: data}, nil
}
