package config

import "github.com/alnah/go-coursemark/internal/pipeline"

// TableMarkers returns the configured table markers, or the defaults.
func (c *Config) TableMarkers() []string {
	if len(c.Tables.Markers) == 0 {
		return pipeline.DefaultTableMarkers()
	}
	return append([]string(nil), c.Tables.Markers...)
}

// TableSchemas returns the configured schemas, or the defaults.
func (c *Config) TableSchemas() []pipeline.TableSchema {
	if len(c.Tables.Schemas) == 0 {
		return pipeline.DefaultTableSchemas()
	}
	out := make([]pipeline.TableSchema, 0, len(c.Tables.Schemas))
	for _, s := range c.Tables.Schemas {
		out = append(out, pipeline.TableSchema{
			Name:      s.Name,
			Header:    s.Header,
			Columns:   append([]string(nil), s.Columns...),
			Keys:      append([]string(nil), s.Keys...),
			SplitKeys: append([]string(nil), s.SplitKeys...),
			Context:   s.Context,
		})
	}
	return out
}
