package betman

import (
	"context"
	"testing"

	"github.com/Vodeneev/matchsync/internal/parser/extract"
	"github.com/Vodeneev/matchsync/internal/parser/page"
)

const protoTable = `<html><body>
<table class="proto-list"><tbody>
  <tr><td>03.14 19:00</td><td>축구</td><td>Real Madrid</td><td>Barcelona</td><td>1.85</td><td>3.40</td><td>4.10</td></tr>
  <tr><td>03.14 21:00</td><td>축구</td><td>Arsenal</td><td>Chelsea</td><td>-</td><td>3.10</td><td>2.95</td></tr>
  <tr><td colspan="7">광고</td></tr>
</tbody></table>
</body></html>`

func TestDefinition_ExtractsProtoTable(t *testing.T) {
	src, err := page.NewStaticFromHTML(protoTable)
	if err != nil {
		t.Fatalf("NewStaticFromHTML: %v", err)
	}

	got, err := extract.New(extract.Options{}).Extract(context.Background(), src, Definition().Plan)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d fixtures, want 2 (ad row dropped)", len(got))
	}
	if got[0].Sport != "축구" || got[0].MatchTime != "03.14 19:00" {
		t.Errorf("first fixture = %+v", got[0])
	}
	if got[0].OddsAway == nil || *got[0].OddsAway != 4.10 {
		t.Errorf("odds away = %v, want 4.10", got[0].OddsAway)
	}
	if got[1].OddsHome != nil {
		t.Errorf("dash odds should be nil, got %v", *got[1].OddsHome)
	}
}
