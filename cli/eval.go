package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"

	actx "go.hackfix.me/hypersphere/app/context"
	"go.hackfix.me/hypersphere/resource"
)

// Eval evaluates a single request without starting the web server.
type Eval struct {
	Method string `arg:"" help:"Request method."`
	Path   string `arg:"" help:"Request path."`
	//nolint:lll // Long struct tags are unavoidable.
	Resource   string   `short:"r" help:"Name of the configured resource to evaluate the request against. If not set, a resource with default capabilities is used."`
	Header     []string `short:"H" sep:"none" placeholder:"NAME:VALUE" help:"Request header. Can be specified multiple times."`
	Body       string   `xor:"body" help:"Request body."`
	BodyFile   string   `xor:"body" type:"path" help:"Path to a file with the request body."`
	RemoteAddr string   `default:"127.0.0.1" help:"Client address of the request."`
}

// Run the eval command.
func (c *Eval) Run(appCtx *actx.Context) error {
	res, err := c.resource(appCtx)
	if err != nil {
		return err
	}

	req, err := c.request(appCtx)
	if err != nil {
		return err
	}

	result, evalErr := resource.Evaluate(res, req, resource.DefaultSteps()...)
	if err = c.render(appCtx.Stdout, req, result, evalErr); err != nil {
		return err
	}

	return evalErr
}

func (c *Eval) resource(appCtx *actx.Context) (resource.Resource, error) {
	if c.Resource == "" {
		return resource.Base{}, nil
	}

	cat, err := loadCatalog(appCtx)
	if err != nil {
		return nil, err
	}
	res, ok := cat.Get(c.Resource)
	if !ok {
		return nil, fmt.Errorf("resource '%s' not found", c.Resource)
	}

	return res, nil
}

func (c *Eval) request(appCtx *actx.Context) (*resource.Request, error) {
	req := resource.NewRequest(c.Method, c.Path)
	req.RemoteAddr = c.RemoteAddr
	req.Logger = appCtx.Logger.With("component", "eval")

	for _, h := range c.Header {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header '%s': expected NAME:VALUE", h)
		}
		req.Header.Add(name, strings.TrimSpace(value))
	}

	switch {
	case c.BodyFile != "":
		body, err := vfs.ReadFile(appCtx.FS, c.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed reading request body: %w", err)
		}
		req.Body = body
	case c.Body != "":
		req.Body = []byte(c.Body)
	}

	return req, nil
}

func (c *Eval) render(w io.Writer, req *resource.Request, result resource.Result, evalErr error) error {
	data := make([][]string, 0, len(result.Checked))
	for i, name := range result.Checked {
		outcome := "pass"
		if i == len(result.Checked)-1 {
			switch {
			case evalErr != nil:
				outcome = "error"
			case name == result.ResolvedBy:
				outcome = strconv.Itoa(result.Response.StatusCode)
			}
		}
		data = append(data, []string{strconv.Itoa(i + 1), name, outcome})
	}

	if err := renderTable([]string{"#", "Check", "Outcome"}, data, w); err != nil {
		return fmt.Errorf("failed rendering table: %w", err)
	}
	if evalErr != nil {
		return nil
	}

	resp := result.Response
	fmt.Fprintf(w, "\nStatus: %d %s\n", resp.StatusCode, resp.Status())
	for _, k := range sortedKeys(resp.Header) {
		fmt.Fprintf(w, "%s: %s\n", k, strings.Join(resp.Header.Values(k), ", "))
	}

	if resp.StatusCode < 300 {
		n := req.Negotiated()
		fmt.Fprintf(w, "Negotiated: media type=%s language=%s charset=%s encoding=%s\n",
			n.MediaType, n.Language, n.Charset, n.Encoding)
	}

	if entity, ok := req.Entity(); ok {
		fmt.Fprintf(w, "Entity:\n%s\n", formatEntity(entity))
	}
	if id, ok := req.Identity(); ok {
		fmt.Fprintf(w, "Identity: %s\n", id)
	}

	return nil
}

func formatEntity(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return strings.TrimRight(s.String(), "\n")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	return string(data)
}
