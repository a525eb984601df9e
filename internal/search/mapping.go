package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for post documents.
//
// Title and content use English stemming; tags are free text split on
// non-letters without stemming.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields ---

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = simple.Name
	tagsFieldMapping.Store = true
	tagsFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	// Content is plain text extracted from the rendered Markdown; too large to store.
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = en.AnalyzerName
	contentFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("content", contentFieldMapping)

	// --- Keyword / filter fields ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	publishedFieldMapping := bleve.NewBooleanFieldMapping()
	publishedFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("published", publishedFieldMapping)

	// --- Numeric fields ---

	touchedFieldMapping := bleve.NewNumericFieldMapping()
	touchedFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("touched", touchedFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
