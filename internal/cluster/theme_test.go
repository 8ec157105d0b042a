package cluster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/docindex/internal/model"
)

func invoiceMembers(n int) []model.FileEmbeddingView {
	members := make([]model.FileEmbeddingView, 0, n)
	for i := 0; i < n; i++ {
		members = append(members, model.FileEmbeddingView{
			FileID:   fmt.Sprintf("f%d", i),
			FileName: fmt.Sprintf("invoice_acme_%d.pdf", i),
			Content:  "amount due and payment terms for the period",
		})
	}
	return members
}

func TestAnalyzeInvoiceGroup(t *testing.T) {
	analyzer := NewThemeAnalyzer()
	theme := analyzer.Analyze(invoiceMembers(8))
	require.Equal(t, model.CategoryDocuments, theme.Category)
	require.Contains(t, theme.Keywords, "invoice")
	require.Contains(t, theme.Keywords, "acme")
	require.Equal(t, "Acme Collection", theme.Name)
	require.Equal(t, "Acme", theme.FolderName)
}

func TestAnalyzeCategoryTieFallsBackToMixed(t *testing.T) {
	analyzer := NewThemeAnalyzer()
	// One work keyword and one personal keyword in content, none in names.
	members := []model.FileEmbeddingView{
		{FileID: "a", FileName: "notes1", Content: "the meeting about our vacation"},
		{FileID: "b", FileName: "notes2", Content: "the meeting about our vacation"},
	}
	theme := analyzer.Analyze(members)
	require.Equal(t, model.CategoryMixed, theme.Category)
}

func TestAnalyzeNoKeywordsUsesCategoryName(t *testing.T) {
	analyzer := NewThemeAnalyzer()
	members := []model.FileEmbeddingView{
		{FileID: "a", FileName: "zz1", Content: "backup of the legacy archive copy"},
		{FileID: "b", FileName: "zz2", Content: "old deprecated draft"},
	}
	theme := analyzer.Analyze(members)
	require.Equal(t, model.CategoryArchive, theme.Category)
	require.Empty(t, theme.Keywords)
	require.Equal(t, "Archive Files", theme.Name)
	require.Equal(t, "Archive", theme.FolderName)
}

func TestExtractKeywordsStoplistAndLength(t *testing.T) {
	names := []string{
		"document_taxes_a.txt",
		"document_taxes_b.txt",
		"document_taxes_c.txt",
	}
	keywords := extractKeywords(names)
	require.NotContains(t, keywords, "document")
	require.NotContains(t, keywords, "txt")
	require.Contains(t, keywords, "taxes")
}

func TestExtractKeywordsFrequencyThreshold(t *testing.T) {
	// "budget" appears once out of 10 names, below max(2, 0.3*10)=3.
	names := []string{"budget_plan_one"}
	for i := 0; i < 9; i++ {
		names = append(names, fmt.Sprintf("misc%d", i))
	}
	keywords := extractKeywords(names)
	require.NotContains(t, keywords, "budget")
}

func TestExtractKeywordsTopThreeDeterministic(t *testing.T) {
	names := []string{
		"alpha_beta_gamma_delta",
		"alpha_beta_gamma_delta",
		"alpha_beta_gamma_delta",
	}
	keywords := extractKeywords(names)
	// All four tokens tie on frequency; ties break alphabetically.
	require.Equal(t, []string{"alpha", "beta", "delta"}, keywords)
}

func TestFolderSuggestion(t *testing.T) {
	require.Equal(t, "Reports - Organized", FolderSuggestion("Projects/Reports"))
	require.Equal(t, "Invoices - Organized", FolderSuggestion("Invoices"))
	require.Equal(t, "", FolderSuggestion(RootFolder))
	require.Equal(t, "", FolderSuggestion(""))
}
