package cli

import (
	"fmt"
	"strconv"
	"strings"

	actx "go.hackfix.me/hypersphere/app/context"
	"go.hackfix.me/hypersphere/parse"
)

// Resources lists the configured resources.
type Resources struct {
	Parsers bool `help:"List the media types request bodies can be parsed from instead."`
}

// Run the resources command.
func (c *Resources) Run(appCtx *actx.Context) error {
	if c.Parsers {
		return c.listParsers(appCtx)
	}

	cat, err := loadCatalog(appCtx)
	if err != nil {
		return err
	}

	header := []string{"Name", "Path", "Methods", "Media Types", "Auth", "Available"}
	data := make([][]string, 0, cat.Len())
	for _, res := range cat.Entries() {
		auth := strings.Join(res.AuthSchemes(), ",")
		if auth == "" {
			auth = "none"
		}
		data = append(data, []string{
			res.Name(),
			res.Path(),
			strings.Join(res.AllowedMethods(), ","),
			strings.Join(res.AcceptableMediaTypes(), ","),
			auth,
			strconv.FormatBool(res.Available()),
		})
	}

	if err = renderTable(header, data, appCtx.Stdout); err != nil {
		return fmt.Errorf("failed rendering table: %w", err)
	}

	return nil
}

func (c *Resources) listParsers(appCtx *actx.Context) error {
	reg := parse.Default()

	var data [][]string
	for _, mt := range reg.MediaTypes() {
		plugin, _ := reg.Plugin(mt)
		data = append(data, []string{mt, plugin})
	}

	if err := renderTable([]string{"Media Type", "Parser"}, data, appCtx.Stdout); err != nil {
		return fmt.Errorf("failed rendering table: %w", err)
	}

	return nil
}
