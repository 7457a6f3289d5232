package release

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/carlosdem/appstream/internal/metadata"
	"github.com/carlosdem/appstream/internal/yamldoc"
)

// ArtifactKind describes whether an artifact is a source or binary
// download.
type ArtifactKind int

const (
	ArtifactKindUnknown ArtifactKind = iota
	ArtifactKindSource
	ArtifactKindBinary
)

// String returns the serialized form of the artifact kind.
func (k ArtifactKind) String() string {
	switch k {
	case ArtifactKindSource:
		return "source"
	case ArtifactKindBinary:
		return "binary"
	}
	return "unknown"
}

// ArtifactKindFromString parses an artifact kind token. Unrecognized
// input maps to ArtifactKindUnknown.
func ArtifactKindFromString(s string) ArtifactKind {
	switch s {
	case "source":
		return ArtifactKindSource
	case "binary":
		return ArtifactKindBinary
	}
	return ArtifactKindUnknown
}

// BundleKind identifies the packaging format of a binary artifact.
type BundleKind int

const (
	BundleKindUnknown BundleKind = iota
	BundleKindPackage
	BundleKindLimba
	BundleKindFlatpak
	BundleKindAppImage
	BundleKindSnap
	BundleKindTarball
	BundleKindCabinet
	BundleKindLinglong
)

// String returns the serialized form of the bundle kind.
func (k BundleKind) String() string {
	switch k {
	case BundleKindPackage:
		return "package"
	case BundleKindLimba:
		return "limba"
	case BundleKindFlatpak:
		return "flatpak"
	case BundleKindAppImage:
		return "appimage"
	case BundleKindSnap:
		return "snap"
	case BundleKindTarball:
		return "tarball"
	case BundleKindCabinet:
		return "cabinet"
	case BundleKindLinglong:
		return "linglong"
	}
	return "unknown"
}

// BundleKindFromString parses a bundle kind token. Unrecognized input
// maps to BundleKindUnknown.
func BundleKindFromString(s string) BundleKind {
	switch s {
	case "package":
		return BundleKindPackage
	case "limba":
		return BundleKindLimba
	case "flatpak":
		return BundleKindFlatpak
	case "appimage":
		return BundleKindAppImage
	case "snap":
		return BundleKindSnap
	case "tarball":
		return BundleKindTarball
	case "cabinet":
		return BundleKindCabinet
	case "linglong":
		return BundleKindLinglong
	}
	return BundleKindUnknown
}

// ChecksumKind names the hash algorithm of a checksum value.
type ChecksumKind int

const (
	ChecksumKindNone ChecksumKind = iota
	ChecksumKindMD5
	ChecksumKindSHA1
	ChecksumKindSHA256
	ChecksumKindSHA512
	ChecksumKindBLAKE2B
	ChecksumKindBLAKE2S
)

// String returns the serialized form of the checksum kind.
func (k ChecksumKind) String() string {
	switch k {
	case ChecksumKindMD5:
		return "md5"
	case ChecksumKindSHA1:
		return "sha1"
	case ChecksumKindSHA256:
		return "sha256"
	case ChecksumKindSHA512:
		return "sha512"
	case ChecksumKindBLAKE2B:
		return "blake2b"
	case ChecksumKindBLAKE2S:
		return "blake2s"
	}
	return "none"
}

// ChecksumKindFromString parses a checksum kind token. Unrecognized
// input maps to ChecksumKindNone.
func ChecksumKindFromString(s string) ChecksumKind {
	switch s {
	case "md5":
		return ChecksumKindMD5
	case "sha1":
		return ChecksumKindSHA1
	case "sha256":
		return ChecksumKindSHA256
	case "sha512":
		return ChecksumKindSHA512
	case "blake2b":
		return ChecksumKindBLAKE2B
	case "blake2s":
		return ChecksumKindBLAKE2S
	}
	return ChecksumKindNone
}

// Checksum is one hash of an artifact's content.
type Checksum struct {
	kind  ChecksumKind
	value string
}

// NewChecksum creates a checksum of the given kind and hex value.
func NewChecksum(kind ChecksumKind, value string) *Checksum {
	return &Checksum{kind: kind, value: value}
}

// Kind returns the hash algorithm.
func (c *Checksum) Kind() ChecksumKind { return c.kind }

// Value returns the hex digest.
func (c *Checksum) Value() string { return c.value }

// SizeKind distinguishes the download size of an artifact from its
// size once installed.
type SizeKind int

const (
	SizeKindUnknown SizeKind = iota
	SizeKindDownload
	SizeKindInstalled
)

// String returns the serialized form of the size kind.
func (k SizeKind) String() string {
	switch k {
	case SizeKindDownload:
		return "download"
	case SizeKindInstalled:
		return "installed"
	}
	return "unknown"
}

// SizeKindFromString parses a size kind token. Unrecognized input maps
// to SizeKindUnknown.
func SizeKindFromString(s string) SizeKind {
	switch s {
	case "download":
		return SizeKindDownload
	case "installed":
		return SizeKindInstalled
	}
	return SizeKindUnknown
}

// sizeKindOrder fixes the emission order of size entries.
var sizeKindOrder = []SizeKind{SizeKindDownload, SizeKindInstalled}

// Artifact is one downloadable file belonging to a release, a source
// tarball or a built binary in some bundling format.
type Artifact struct {
	kind      ArtifactKind
	platform  string
	bundle    BundleKind
	locations []string
	checksums []*Checksum
	sizes     map[SizeKind]uint64
	filename  string
}

// NewArtifact creates an empty artifact.
func NewArtifact() *Artifact {
	return &Artifact{sizes: make(map[SizeKind]uint64)}
}

// Kind returns the artifact kind.
func (a *Artifact) Kind() ArtifactKind { return a.kind }

// SetKind sets the artifact kind.
func (a *Artifact) SetKind(kind ArtifactKind) { a.kind = kind }

// Platform returns the platform triplet the artifact was built for.
func (a *Artifact) Platform() string { return a.platform }

// SetPlatform sets the platform triplet, e.g. "x86_64-linux-gnu".
func (a *Artifact) SetPlatform(platform string) { a.platform = platform }

// Bundle returns the bundling format of the artifact.
func (a *Artifact) Bundle() BundleKind { return a.bundle }

// SetBundle sets the bundling format of the artifact.
func (a *Artifact) SetBundle(kind BundleKind) { a.bundle = kind }

// Locations returns the download locations for this artifact.
func (a *Artifact) Locations() []string { return a.locations }

// AddLocation adds a download location.
func (a *Artifact) AddLocation(location string) {
	a.locations = append(a.locations, location)
}

// Checksums returns all checksums of the artifact.
func (a *Artifact) Checksums() []*Checksum { return a.checksums }

// Checksum returns the first checksum of the given kind, or nil.
func (a *Artifact) Checksum(kind ChecksumKind) *Checksum {
	for _, c := range a.checksums {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// AddChecksum adds a checksum for the artifact's content.
func (a *Artifact) AddChecksum(c *Checksum) {
	a.checksums = append(a.checksums, c)
}

// Size returns the artifact size of the given kind, or 0 when unset.
func (a *Artifact) Size(kind SizeKind) uint64 { return a.sizes[kind] }

// SetSize records an artifact size of the given kind.
func (a *Artifact) SetSize(kind SizeKind, size uint64) {
	if kind == SizeKindUnknown {
		return
	}
	a.sizes[kind] = size
}

// Filename returns the suggested name of the downloaded file.
func (a *Artifact) Filename() string { return a.filename }

// SetFilename sets the suggested name of the downloaded file.
func (a *Artifact) SetFilename(filename string) { a.filename = filename }

// loadXML reads one artifact element. It reports false for entries
// without a valid kind, which callers drop.
func (a *Artifact) loadXML(ctx *metadata.Context, el *etree.Element) bool {
	a.kind = ArtifactKindFromString(el.SelectAttrValue("type", ""))
	if a.kind == ArtifactKindUnknown {
		ctx.Log().Warn("dropping artifact of unknown type", "file", ctx.Filename)
		return false
	}
	a.platform = el.SelectAttrValue("platform", "")
	if prop := el.SelectAttrValue("bundle", ""); prop != "" {
		a.bundle = BundleKindFromString(prop)
	}

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "location":
			if v := strings.TrimSpace(child.Text()); v != "" {
				a.locations = append(a.locations, v)
			}
		case "filename":
			a.filename = strings.TrimSpace(child.Text())
		case "checksum":
			kind := ChecksumKindFromString(child.SelectAttrValue("type", ""))
			value := strings.TrimSpace(child.Text())
			if kind == ChecksumKindNone || value == "" {
				ctx.Log().Warn("dropping malformed checksum", "file", ctx.Filename)
				continue
			}
			a.checksums = append(a.checksums, &Checksum{kind: kind, value: value})
		case "size":
			kind := SizeKindFromString(child.SelectAttrValue("type", ""))
			size, err := strconv.ParseUint(strings.TrimSpace(child.Text()), 10, 64)
			if kind == SizeKindUnknown || err != nil {
				ctx.Log().Warn("dropping malformed artifact size", "file", ctx.Filename)
				continue
			}
			a.sizes[kind] = size
		default:
			ctx.Log().Info("unknown artifact element", "tag", child.Tag, "file", ctx.Filename)
		}
	}
	return true
}

func (a *Artifact) toXML(_ *metadata.Context, parent *etree.Element) {
	el := parent.CreateElement("artifact")
	el.CreateAttr("type", a.kind.String())
	if a.platform != "" {
		el.CreateAttr("platform", a.platform)
	}
	if a.bundle != BundleKindUnknown {
		el.CreateAttr("bundle", a.bundle.String())
	}

	for _, location := range a.locations {
		el.CreateElement("location").SetText(location)
	}
	for _, c := range a.checksums {
		n := el.CreateElement("checksum")
		n.CreateAttr("type", c.kind.String())
		n.SetText(c.value)
	}
	for _, kind := range sizeKindOrder {
		if size, ok := a.sizes[kind]; ok {
			n := el.CreateElement("size")
			n.CreateAttr("type", kind.String())
			n.SetText(strconv.FormatUint(size, 10))
		}
	}
	if a.filename != "" {
		el.CreateElement("filename").SetText(a.filename)
	}
}

// loadYAML reads one artifact mapping. It reports false for entries
// without a valid kind, which callers drop.
func (a *Artifact) loadYAML(ctx *metadata.Context, node *yaml.Node) bool {
	yamldoc.EachEntry(node, func(key string, value *yaml.Node) {
		switch key {
		case "type":
			a.kind = ArtifactKindFromString(yamldoc.ScalarValue(value))
		case "platform":
			a.platform = yamldoc.ScalarValue(value)
		case "bundle":
			a.bundle = BundleKindFromString(yamldoc.ScalarValue(value))
		case "locations":
			if value == nil || value.Kind != yaml.SequenceNode {
				return
			}
			for _, item := range value.Content {
				if v := yamldoc.ScalarValue(item); v != "" {
					a.locations = append(a.locations, v)
				}
			}
		case "filename":
			a.filename = yamldoc.ScalarValue(value)
		case "checksums":
			yamldoc.EachEntry(value, func(kindStr string, v *yaml.Node) {
				kind := ChecksumKindFromString(kindStr)
				digest := yamldoc.ScalarValue(v)
				if kind == ChecksumKindNone || digest == "" {
					ctx.Log().Warn("dropping malformed checksum", "file", ctx.Filename)
					return
				}
				a.checksums = append(a.checksums, &Checksum{kind: kind, value: digest})
			})
		case "sizes":
			yamldoc.EachEntry(value, func(kindStr string, v *yaml.Node) {
				kind := SizeKindFromString(kindStr)
				size, ok := yamldoc.IntValue(v)
				if kind == SizeKindUnknown || !ok || size < 0 {
					ctx.Log().Warn("dropping malformed artifact size", "file", ctx.Filename)
					return
				}
				a.sizes[kind] = uint64(size)
			})
		default:
			ctx.Log().Info("unknown artifact key", "key", key, "file", ctx.Filename)
		}
	})

	if a.kind == ArtifactKindUnknown {
		ctx.Log().Warn("dropping artifact of unknown type", "file", ctx.Filename)
		return false
	}
	return true
}

func (a *Artifact) emitYAML(_ *metadata.Context) *yaml.Node {
	m := yamldoc.Mapping()
	yamldoc.AddScalarEntry(m, "type", a.kind.String())
	yamldoc.AddScalarEntry(m, "platform", a.platform)
	if a.bundle != BundleKindUnknown {
		yamldoc.AddScalarEntry(m, "bundle", a.bundle.String())
	}

	if len(a.locations) > 0 {
		seq := yamldoc.Sequence()
		for _, location := range a.locations {
			yamldoc.AppendItem(seq, yamldoc.Scalar(location))
		}
		yamldoc.AddEntry(m, "locations", seq)
	}
	if len(a.checksums) > 0 {
		cm := yamldoc.Mapping()
		for _, c := range a.checksums {
			yamldoc.AddScalarEntry(cm, c.kind.String(), c.value)
		}
		yamldoc.AddEntry(m, "checksums", cm)
	}
	if len(a.sizes) > 0 {
		sm := yamldoc.Mapping()
		for _, kind := range sizeKindOrder {
			if size, ok := a.sizes[kind]; ok {
				yamldoc.AddIntEntry(sm, kind.String(), int64(size))
			}
		}
		yamldoc.AddEntry(m, "sizes", sm)
	}
	yamldoc.AddScalarEntry(m, "filename", a.filename)
	return m
}
