package release

import (
	"gopkg.in/yaml.v3"

	"github.com/carlosdem/appstream/internal/metadata"
	"github.com/carlosdem/appstream/internal/yamldoc"
)

// LoadYAML populates the release from a DEP-11 mapping node. Keys are
// processed in document order, so when both date and unix-timestamp
// are present the later one wins. Unknown keys are reported and
// skipped; the load itself never fails.
func (r *Release) LoadYAML(ctx *metadata.Context, node *yaml.Node) {
	r.SetContext(ctx)

	yamldoc.EachEntry(node, func(key string, value *yaml.Node) {
		switch key {
		case "unix-timestamp":
			if ts, ok := yamldoc.IntValue(value); ok {
				r.timestamp = ts
			} else {
				ctx.Log().Warn("ignoring invalid release timestamp",
					"timestamp", yamldoc.ScalarValue(value), "file", ctx.Filename)
			}
		case "date":
			if t, err := ParseISO8601(yamldoc.ScalarValue(value)); err == nil {
				r.timestamp = t.Unix()
			} else {
				ctx.Log().Warn("ignoring invalid release date",
					"date", yamldoc.ScalarValue(value), "file", ctx.Filename)
			}
		case "date-eol":
			r.dateEOL = yamldoc.ScalarValue(value)
		case "type":
			r.kind = KindFromString(yamldoc.ScalarValue(value))
		case "version":
			r.version = yamldoc.ScalarValue(value)
		case "urgency":
			r.urgency = UrgencyFromString(yamldoc.ScalarValue(value))
		case "description":
			yamldoc.LoadLocalizedTable(ctx, value, r.description)
		case "url":
			yamldoc.EachEntry(value, func(kindStr string, v *yaml.Node) {
				if URLKindFromString(kindStr) == URLKindUnknown {
					return
				}
				if url := yamldoc.ScalarValue(v); url != "" {
					r.urlDetails = url
				}
			})
		case "issues":
			if value == nil || value.Kind != yaml.SequenceNode {
				return
			}
			for _, item := range value.Content {
				issue := NewIssue()
				if issue.loadYAML(ctx, item) {
					r.issues = append(r.issues, issue)
				}
			}
		case "artifacts":
			if value == nil || value.Kind != yaml.SequenceNode {
				return
			}
			for _, item := range value.Content {
				artifact := NewArtifact()
				if artifact.loadYAML(ctx, item) {
					r.artifacts = append(r.artifacts, artifact)
				}
			}
		default:
			ctx.Log().Info("unknown release key", "key", key, "file", ctx.Filename)
		}
	})
}

// EmitYAML serializes the release as a DEP-11 mapping node. The
// instant is written as a numeric unix-timestamp key in catalog style
// and as a formatted date key otherwise, never both.
func (r *Release) EmitYAML(ctx *metadata.Context) *yaml.Node {
	m := yamldoc.Mapping()

	yamldoc.AddScalarEntry(m, "version", r.version)
	yamldoc.AddScalarEntry(m, "type", r.kind.String())

	if r.timestamp > 0 {
		if ctx.Style == metadata.StyleCatalog {
			yamldoc.AddIntEntry(m, "unix-timestamp", r.timestamp)
		} else {
			yamldoc.AddScalarEntry(m, "date", FormatISO8601(r.timestamp))
		}
	}

	yamldoc.AddScalarEntry(m, "date-eol", r.dateEOL)

	if r.urgency != UrgencyUnknown {
		yamldoc.AddScalarEntry(m, "urgency", r.urgency.String())
	}

	yamldoc.AddLocalizedEntry(m, "description", r.description)

	if r.urlDetails != "" {
		um := yamldoc.Mapping()
		yamldoc.AddScalarEntry(um, URLKindDetails.String(), r.urlDetails)
		yamldoc.AddEntry(m, "url", um)
	}

	if len(r.issues) > 0 {
		seq := yamldoc.Sequence()
		for _, issue := range r.issues {
			yamldoc.AppendItem(seq, issue.emitYAML(ctx))
		}
		yamldoc.AddEntry(m, "issues", seq)
	}

	if len(r.artifacts) > 0 {
		seq := yamldoc.Sequence()
		for _, artifact := range r.artifacts {
			yamldoc.AppendItem(seq, artifact.emitYAML(ctx))
		}
		yamldoc.AddEntry(m, "artifacts", seq)
	}

	return m
}
