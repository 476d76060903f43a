package feed

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"

	"github.com/celve/appcast-updater/internal/domain/appcast"
)

const (
	// SparkleNamespace is the XML namespace of Sparkle-specific item fields.
	SparkleNamespace = "http://www.andymatuschak.org/xml-namespaces/sparkle"

	// defaultSparklePrefix is declared on the root when the feed binds none.
	defaultSparklePrefix = "sparkle"

	channelTag   = "channel"
	itemTag      = "item"
	titleTag     = "title"
	pubDateTag   = "pubDate"
	enclosureTag = "enclosure"
	indentWidth  = 4
)

var (
	// ErrNoChannel is returned when the feed root has no channel element.
	ErrNoChannel = errors.New("no channel element found")
	// ErrNoRoot is returned for documents without a root element.
	ErrNoRoot = errors.New("feed has no root element")
	// errPrefixTaken indicates the default prefix is bound to another namespace.
	errPrefixTaken = errors.New("namespace prefix already bound")
)

// Document is a parsed appcast feed.
type Document struct {
	doc *etree.Document
}

// Parse reads an appcast document from raw XML.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true

	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	if doc.Root() == nil {
		return nil, ErrNoRoot
	}

	return &Document{doc: doc}, nil
}

// Channel returns the channel element directly under the root.
func (d *Document) Channel() (*etree.Element, error) {
	for _, child := range d.doc.Root().ChildElements() {
		if hasTag(child, channelTag) {
			return child, nil
		}
	}

	return nil, ErrNoChannel
}

// Len returns the number of items in the channel.
func (d *Document) Len() (int, error) {
	channel, err := d.Channel()
	if err != nil {
		return 0, err
	}

	count := 0

	for _, child := range channel.ChildElements() {
		if hasTag(child, itemTag) {
			count++
		}
	}

	return count, nil
}

// Versions lists the full versions of the items currently in the channel,
// most recent first. Items without a version are skipped.
func (d *Document) Versions() ([]string, error) {
	channel, err := d.Channel()
	if err != nil {
		return nil, err
	}

	prefix, ok := d.sparklePrefix()
	if !ok {
		return nil, nil
	}

	var versions []string

	for _, item := range channel.ChildElements() {
		if !hasTag(item, itemTag) {
			continue
		}

		if el := item.SelectElement(prefix + ":version"); el != nil {
			versions = append(versions, strings.TrimSpace(el.Text()))
			continue
		}

		// Older feeds carry the version on the enclosure.
		if enc := item.SelectElement(enclosureTag); enc != nil {
			if value := enc.SelectAttrValue(prefix+":version", ""); value != "" {
				versions = append(versions, value)
			}
		}
	}

	return versions, nil
}

// Publish places item right after the channel metadata and keeps at most
// retain of the previous items after it, in their original order.
func (d *Document) Publish(item appcast.Item, retain int) error {
	channel, err := d.Channel()
	if err != nil {
		return err
	}

	prefix, err := d.ensureSparklePrefix()
	if err != nil {
		return err
	}

	var (
		existing []etree.Token
		metadata []etree.Token
	)

	for _, token := range channel.Child {
		switch t := token.(type) {
		case *etree.Element:
			if hasTag(t, itemTag) {
				existing = append(existing, t)
				continue
			}
		case *etree.CharData:
			if t.IsWhitespace() {
				continue
			}
		}

		metadata = append(metadata, token)
	}

	for len(channel.Child) > 0 {
		channel.RemoveChildAt(len(channel.Child) - 1)
	}

	pos := insertPosition(metadata)
	children := slices.Concat(
		metadata[:pos],
		[]etree.Token{newItemElement(item, prefix)},
		metadata[pos:],
		appcast.Retain(existing, retain),
	)

	for _, token := range children {
		channel.AddChild(token)
	}

	return nil
}

// Bytes serializes the document with four-space indentation and no blank lines.
func (d *Document) Bytes() ([]byte, error) {
	d.ensureDeclaration()
	d.doc.Indent(indentWidth)

	raw, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize feed: %w", err)
	}

	return stripBlankLines(raw), nil
}

// insertPosition returns the index in metadata where a new item goes: one
// element past the first element that is not a title. With no such element
// the item goes after the first element.
func insertPosition(metadata []etree.Token) int {
	var positions []int

	anchor := -1

	for i, token := range metadata {
		el, ok := token.(*etree.Element)
		if !ok {
			continue
		}

		if anchor < 0 && !hasTag(el, titleTag) {
			anchor = len(positions)
		}

		positions = append(positions, i)
	}

	if anchor < 0 {
		anchor = 0
	}

	if anchor+1 < len(positions) {
		return positions[anchor+1]
	}

	return len(metadata)
}

// newItemElement renders an item using prefix for Sparkle fields.
func newItemElement(item appcast.Item, prefix string) *etree.Element {
	el := etree.NewElement(itemTag)

	el.CreateElement(titleTag).SetText(item.Title)
	el.CreateElement(pubDateTag).SetText(item.PubDate)
	el.CreateElement(prefix + ":version").SetText(item.Version)
	el.CreateElement(prefix + ":shortVersionString").SetText(item.ShortVersionString)
	el.CreateElement(prefix + ":minimumSystemVersion").SetText(item.MinimumSystemVersion)

	enc := el.CreateElement(enclosureTag)
	enc.CreateAttr("url", item.Enclosure.URL)
	enc.CreateAttr("type", item.Enclosure.Type)

	return el
}

// sparklePrefix finds the prefix the root binds to SparkleNamespace.
func (d *Document) sparklePrefix() (string, bool) {
	for _, attr := range d.doc.Root().Attr {
		if attr.Space == "xmlns" && attr.Value == SparkleNamespace {
			return attr.Key, true
		}
	}

	return "", false
}

// ensureSparklePrefix returns the Sparkle prefix, declaring it on the root if needed.
func (d *Document) ensureSparklePrefix() (string, error) {
	if prefix, ok := d.sparklePrefix(); ok {
		return prefix, nil
	}

	root := d.doc.Root()
	key := "xmlns:" + defaultSparklePrefix

	if bound := root.SelectAttr(key); bound != nil {
		return "", fmt.Errorf("%w: %s=%q", errPrefixTaken, key, bound.Value)
	}

	root.CreateAttr(key, SparkleNamespace)

	return defaultSparklePrefix, nil
}

// ensureDeclaration prepends an XML declaration when the document lacks one.
func (d *Document) ensureDeclaration() {
	for _, token := range d.doc.Child {
		if pi, ok := token.(*etree.ProcInst); ok && pi.Target == "xml" {
			return
		}
	}

	d.doc.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="utf-8"`))
}

// hasTag reports whether el is an unprefixed element named tag.
func hasTag(el *etree.Element, tag string) bool {
	return el.Space == "" && el.Tag == tag
}

// stripBlankLines drops whitespace-only lines and terminates the output with a newline.
func stripBlankLines(raw []byte) []byte {
	lines := bytes.Split(raw, []byte("\n"))
	kept := lines[:0]

	for _, line := range lines {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		kept = append(kept, bytes.TrimRight(line, "\r"))
	}

	out := bytes.Join(kept, []byte("\n"))

	return append(out, '\n')
}
