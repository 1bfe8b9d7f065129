package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// MessageBox is a titled list of user messages.
type MessageBox struct {
	Title    string   `json:"title"`
	Messages []string `json:"messages,omitempty"`
}

// RedirectResponse tells the front end which page to open next, with the
// form data to prefill it and the message to show on arrival.
type RedirectResponse struct {
	Redirect string         `json:"redirect"`
	FormData map[string]any `json:"form_data,omitempty"`
	Success  *MessageBox    `json:"success,omitempty"`
	Error    *MessageBox    `json:"error,omitempty"`
}

// actionURL builds the URL of a console action with extra query arguments
// given as key/value pairs.
func actionURL(action string, kv ...string) string {
	q := url.Values{}
	q.Set("action", action)
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return "/?" + q.Encode()
}

// fatal ends a request whose input cannot even be routed back to a form.
func fatal(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MessageBox{Title: msg}})
}

// inputValues reads the request parameters as strings, from a JSON object
// body or from the query and form values.
func inputValues(c *gin.Context) (map[string]string, error) {
	out := map[string]string{}
	if c.ContentType() == gin.MIMEJSON {
		var doc map[string]any
		if err := json.NewDecoder(c.Request.Body).Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for k, v := range doc {
			switch v := v.(type) {
			case string:
				out[k] = v
			case nil:
			case float64, bool, json.Number:
				out[k] = fmt.Sprint(v)
			default:
				return nil, fmt.Errorf("parameter %q must be a scalar", k)
			}
		}
		return out, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	for k, v := range c.Request.Form {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}
