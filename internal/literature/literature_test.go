// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// testCfg returns a config with defaults suitable for tests: no rate limit
// to speak of and a short timeout.
func testCfg() types.LiteratureConfig {
	return types.LiteratureConfig{
		HTTPConfig:        types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "wellness-chat-test"},
		YearMin:           1990,
		YearMax:           2024,
		MaxResults:        10,
		Mode:              types.ModeAbstracts,
		Concurrency:       4,
		RequestsPerSecond: 1000,
	}
}

func testClient() *Client {
	return NewClient(testCfg(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// swapURL points one of the package endpoint vars at an httptest server for
// the duration of the test.
func swapURL(t *testing.T, target *string, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	orig := *target
	*target = srv.URL
	t.Cleanup(func() {
		*target = orig
		srv.Close()
	})
	return srv
}

const efetchThreeArticles = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2024//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_240101.dtd">
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation Status="MEDLINE" Owner="NLM">
      <PMID Version="1">111</PMID>
      <DateCompleted><Year>2020</Year><Month>05</Month><Day>01</Day></DateCompleted>
      <Article PubModel="Print">
        <ArticleTitle>Hot flashes in perimenopause.</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Vasomotor symptoms are <i>common</i> in midlife.</AbstractText>
          <AbstractText Label="RESULTS">Most women report them.</AbstractText>
        </Abstract>
        <AuthorList CompleteYN="Y">
          <Author ValidYN="Y"><LastName>Smith</LastName><ForeName>Jane</ForeName></Author>
          <Author ValidYN="Y"><LastName>Doe</LastName><ForeName>John</ForeName></Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation Status="MEDLINE" Owner="NLM">
      <PMID Version="1">222</PMID>
      <DateCompleted><Year>2019</Year></DateCompleted>
      <Article PubModel="Print">
        <ArticleTitle>A letter without an abstract.</ArticleTitle>
        <AuthorList CompleteYN="Y">
          <Author ValidYN="Y"><LastName>Nguyen</LastName></Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation Status="MEDLINE" Owner="NLM">
      <PMID Version="1">333</PMID>
      <DateCompleted><Year>2022</Year></DateCompleted>
      <Article PubModel="Print">
        <Abstract>
          <AbstractText>Sleep disturbance affects quality of life.</AbstractText>
        </Abstract>
        <AuthorList CompleteYN="Y">
          <Author ValidYN="Y"><LastName>Garcia</LastName></Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`
