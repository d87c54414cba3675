package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/form/v4"
)

const maxFormMemory = 10 << 20

var errInvalidBody = errors.New("invalid request body")

var (
	// Form posts are matched on the `form` tag and JSON bodies on the `json` tag
	formDecoder     = form.NewDecoder()
	jsonFormDecoder = newTagDecoder("json")
)

func newTagDecoder(tag string) *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName(tag)
	return d
}

// bindForm fills dst from a urlencoded, multipart or JSON request body.
// An unchecked checkbox is simply absent, so missing bools stay false.
func bindForm(r *http.Request, dst interface{}) error {
	if isJSONRequest(r) {
		values, err := readJSONValues(r.Body)
		if err != nil {
			return err
		}
		return decodeValues(jsonFormDecoder, dst, values)
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return errInvalidBody
	}
	return decodeValues(formDecoder, dst, r.PostForm)
}

func decodeValues(d *form.Decoder, dst interface{}, values url.Values) error {
	if err := d.Decode(dst, values); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

// readJSONValues flattens a JSON object into form values. Numbers keep
// their literal text so that prices are parsed exactly.
func readJSONValues(body io.Reader) (url.Values, error) {
	dec := json.NewDecoder(io.LimitReader(body, maxFormMemory))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errInvalidBody
	}

	values := make(url.Values, len(raw))
	for key, val := range raw {
		switch typed := val.(type) {
		case nil:
		case string:
			values.Set(key, typed)
		case json.Number:
			values.Set(key, typed.String())
		case bool:
			values.Set(key, strconv.FormatBool(typed))
		default:
			return nil, fmt.Errorf("%w: field %q must be a scalar", errInvalidBody, key)
		}
	}
	return values, nil
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
