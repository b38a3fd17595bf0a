package alphavantage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into the provided data structure. It uses the provided
// http.Client for the request.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return fmt.Errorf("%w: cannot http GET %v/%v: %v", ErrTransport, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
