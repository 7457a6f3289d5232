package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions

var convertToolDef = mcp.NewTool("releases_convert",
	mcp.WithDescription("Convert a software release document between XML and YAML and between the metainfo and catalog styles."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source document path (.xml, .yml or .yaml)."),
	),
	mcp.WithString("output",
		mcp.Description("Destination path. Omit to get the converted document inline."),
	),
	mcp.WithString("from",
		mcp.Enum("xml", "yaml"),
		mcp.Description("Source format. Detected from the path and content when omitted."),
	),
	mcp.WithString("to",
		mcp.Enum("xml", "yaml"),
		mcp.Description("Target format. Taken from the output path extension when omitted."),
	),
	mcp.WithString("style",
		mcp.Enum("metainfo", "catalog"),
		mcp.Description("Source document style. Defaults to the conventional style for the source format."),
	),
	mcp.WithString("target_style",
		mcp.Enum("metainfo", "catalog"),
		mcp.Description("Target document style. Defaults to the conventional style for the target format."),
	),
	mcp.WithString("locale",
		mcp.Description("Keep only description text compatible with this locale. Omit to keep every translation."),
	),
	mcp.WithString("media_baseurl",
		mcp.Description("Base URL for resolving relative media references in catalog documents."),
	),
)

var validateToolDef = mcp.NewTool("releases_validate",
	mcp.WithDescription("Check whether a release document parses cleanly. Reports parser warnings and notices without failing the call."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Document path (.xml, .yml or .yaml)."),
	),
	mcp.WithString("format",
		mcp.Enum("xml", "yaml"),
		mcp.Description("Document format. Detected from the path and content when omitted."),
	),
	mcp.WithString("style",
		mcp.Enum("metainfo", "catalog"),
		mcp.Description("Document style. Defaults to the conventional style for the format."),
	),
)

var inspectToolDef = mcp.NewTool("releases_inspect",
	mcp.WithDescription("Summarize the releases in a document: version, kind, dates, urgency, locales, issue and artifact counts."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Document path (.xml, .yml or .yaml)."),
	),
	mcp.WithString("format",
		mcp.Enum("xml", "yaml"),
		mcp.Description("Document format. Detected from the path and content when omitted."),
	),
	mcp.WithString("style",
		mcp.Enum("metainfo", "catalog"),
		mcp.Description("Document style. Defaults to the conventional style for the format."),
	),
	mcp.WithString("version",
		mcp.Description("Summarize only the release with this version."),
	),
	mcp.WithString("locale",
		mcp.Description("Show descriptions in this locale. Defaults to the configured locale, then the untranslated text."),
	),
)

var sortToolDef = mcp.NewTool("releases_sort",
	mcp.WithDescription("Order a release document most recent first and rewrite it in the same format."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Document path (.xml, .yml or .yaml)."),
	),
	mcp.WithString("output",
		mcp.Description("Destination path. Omit to rewrite the document in place."),
	),
	mcp.WithString("format",
		mcp.Enum("xml", "yaml"),
		mcp.Description("Document format. Detected from the path and content when omitted."),
	),
	mcp.WithString("style",
		mcp.Enum("metainfo", "catalog"),
		mcp.Description("Document style. Defaults to the conventional style for the format."),
	),
)

var newsConvertToolDef = mcp.NewTool("news_convert",
	mcp.WithDescription("Convert between Markdown release notes and a release document."),
	mcp.WithString("direction",
		mcp.Required(),
		mcp.Enum("to-releases", "from-releases"),
		mcp.Description("to-releases parses Markdown notes into a release document; from-releases renders a release document as Markdown notes."),
	),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source path: Markdown notes (.md) for to-releases, a release document for from-releases."),
	),
	mcp.WithString("output",
		mcp.Description("Destination path. Omit to get the result inline."),
	),
	mcp.WithString("format",
		mcp.Enum("xml", "yaml"),
		mcp.Description("Release document format. For to-releases the target format (default xml); for from-releases the source format (default detected)."),
	),
	mcp.WithString("style",
		mcp.Enum("metainfo", "catalog"),
		mcp.Description("Release document style. Defaults to the conventional style for the format."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Cap on rendered entries for from-releases. 0 renders all."),
	),
)
