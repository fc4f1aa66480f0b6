package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio-stress-lab/internal/analytics"
	"portfolio-stress-lab/internal/dataset"
	"portfolio-stress-lab/internal/domain"
	"portfolio-stress-lab/internal/graph"
)

// snapshot returns the current snapshot or writes a 503 when the first
// load has not completed.
func (s *Server) snapshot(w http.ResponseWriter) *dataset.Snapshot {
	snap := s.store.Current()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "no data loaded yet")
	}
	return snap
}

// parseFilter reads the common view-filter query parameters. Absent
// list parameters mean "all"; an explicitly empty parameter (e.g.
// "portfolios=") means "none selected" — a valid, empty view.
func parseFilter(r *http.Request) (domain.ViewFilter, error) {
	var f domain.ViewFilter
	q := r.URL.Query()

	if raw := q.Get("start"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return f, errors.New("malformed start date, want YYYY-MM-DD")
		}
		f.Start = d
	}
	if raw := q.Get("end"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return f, errors.New("malformed end date, want YYYY-MM-DD")
		}
		f.End = d
	}

	f.Portfolios = parseList(q, "portfolios")
	f.Scenarios = parseList(q, "scenarios")
	f.Series = parseList(q, "series")
	return f, nil
}

// parseList returns nil when the parameter is absent, and a (possibly
// empty) slice when it is present.
func parseList(q map[string][]string, key string) []string {
	raw, ok := q[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	values := []string{}
	for _, part := range strings.Split(raw[0], ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

// metaResponse describes the loaded dataset for the selection widgets.
type metaResponse struct {
	Portfolios       []string            `json:"portfolios"`
	Scenarios        []string            `json:"scenarios"`
	Dates            []string            `json:"dates"`
	CorrelationBooks map[string][]string `json:"correlation_books"`
	UnresolvedSheets []string            `json:"unresolved_sheets"`
	LoadedAt         time.Time           `json:"loaded_at"`
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}

	dates := dataset.Dates(snap.Stress)
	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = d.Format("2006-01-02")
	}

	books := make(map[string][]string, len(snap.Correlations))
	for label, series := range snap.Correlations {
		books[label] = series.Names
	}

	respondJSON(w, http.StatusOK, metaResponse{
		Portfolios:       dataset.Portfolios(snap.Stress),
		Scenarios:        dataset.Scenarios(snap.Stress),
		Dates:            formatted,
		CorrelationBooks: books,
		UnresolvedSheets: snap.UnresolvedSheets,
		LoadedAt:         snap.LoadedAt,
	})
}

type stressRow struct {
	Date         string  `json:"date"`
	Portfolio    string  `json:"portfolio"`
	ScenarioName string  `json:"scenario_name"`
	Scenario     string  `json:"scenario_label"`
	StressPnL    float64 `json:"stress_pnl_bp"`
}

func (s *Server) handleStress(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records := dataset.FilterStress(snap.Stress, f)
	rows := make([]stressRow, len(records))
	for i, rec := range records {
		rows[i] = stressRow{
			Date:         rec.Date.Format("2006-01-02"),
			Portfolio:    rec.Portfolio,
			ScenarioName: rec.ScenarioName,
			Scenario:     rec.Scenario,
			StressPnL:    rec.StressPnL,
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"records": rows})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	op, err := parseOp(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	keys, err := parseGroupKeys(r.URL.Query().Get("group"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records := dataset.FilterStress(snap.Stress, f)
	rows := analytics.Aggregate(records, keys, analytics.StressPnL, op)

	out := make([]aggregateRow, len(rows))
	for i, row := range rows {
		out[i] = aggregateRow{
			Portfolio: row.Portfolio,
			Scenario:  row.Scenario,
			Value:     row.Value,
			Count:     row.Count,
		}
		if !row.Date.IsZero() {
			out[i].Date = row.Date.Format("2006-01-02")
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"op": op.Name, "rows": out})
}

type aggregateRow struct {
	Portfolio string  `json:"portfolio,omitempty"`
	Scenario  string  `json:"scenario,omitempty"`
	Date      string  `json:"date,omitempty"`
	Value     float64 `json:"value"`
	Count     int     `json:"count"`
}

func parseOp(r *http.Request) (analytics.AggregateOp, error) {
	switch name := r.URL.Query().Get("op"); name {
	case "", "mean":
		return analytics.OpMean, nil
	case "sum":
		return analytics.OpSum, nil
	case "median":
		return analytics.OpMedian, nil
	case "quantile":
		q, err := strconv.ParseFloat(r.URL.Query().Get("q"), 64)
		if err != nil || q < 0 || q > 1 {
			return analytics.AggregateOp{}, errors.New("quantile op needs q in [0, 1]")
		}
		return analytics.OpQuantile(q), nil
	default:
		return analytics.AggregateOp{}, errors.New("unknown op: " + name)
	}
}

func parseGroupKeys(raw string) ([]analytics.GroupKey, error) {
	if raw == "" {
		return []analytics.GroupKey{analytics.KeyScenario}, nil
	}
	var keys []analytics.GroupKey
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(part) {
		case "portfolio":
			keys = append(keys, analytics.KeyPortfolio)
		case "scenario":
			keys = append(keys, analytics.KeyScenario)
		case "date":
			keys = append(keys, analytics.KeyDate)
		default:
			return nil, errors.New("unknown group key: " + part)
		}
	}
	return keys, nil
}

func (s *Server) handlePeer(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	q := r.URL.Query()

	subject := q.Get("portfolio")
	scenario := q.Get("scenario")
	if subject == "" || scenario == "" {
		respondError(w, http.StatusBadRequest, "portfolio and scenario are required")
		return
	}
	date, err := time.ParseInLocation("2006-01-02", q.Get("date"), time.UTC)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed date, want YYYY-MM-DD")
		return
	}

	loQ, hiQ := 0.25, 0.75
	if raw := q.Get("lo"); raw != "" {
		if loQ, err = strconv.ParseFloat(raw, 64); err != nil {
			respondError(w, http.StatusBadRequest, "malformed lo quantile")
			return
		}
	}
	if raw := q.Get("hi"); raw != "" {
		if hiQ, err = strconv.ParseFloat(raw, 64); err != nil {
			respondError(w, http.StatusBadRequest, "malformed hi quantile")
			return
		}
	}

	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	records := dataset.FilterStress(snap.Stress, f)

	cmp, err := analytics.PeerCompare(records, subject, date, scenario, loQ, hiQ)
	if err != nil {
		switch {
		case errors.Is(err, analytics.ErrInsufficientPeers):
			respondError(w, http.StatusUnprocessableEntity, "not enough data: fewer than 2 portfolios in view")
		case errors.Is(err, analytics.ErrNoSubjectData):
			respondError(w, http.StatusNotFound, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, peerResponse{
		Portfolio:    cmp.Portfolio,
		Scenario:     cmp.Scenario,
		Date:         date.Format("2006-01-02"),
		SubjectValue: cmp.SubjectValue,
		PeerMedian:   cmp.PeerMedian,
		PeerLo:       cmp.PeerLo,
		PeerHi:       cmp.PeerHi,
		PeerCount:    cmp.PeerCount,
	})
}

type peerResponse struct {
	Portfolio    string  `json:"portfolio"`
	Scenario     string  `json:"scenario"`
	Date         string  `json:"date"`
	SubjectValue float64 `json:"subject_value"`
	PeerMedian   float64 `json:"peer_median"`
	PeerLo       float64 `json:"peer_lo"`
	PeerHi       float64 `json:"peer_hi"`
	PeerCount    int     `json:"peer_count"`
}

type correlationResponse struct {
	Dates   []string             `json:"dates"`
	Values  map[string][]float64 `json:"values"`
	Summary []seriesSummary      `json:"summary"`
}

type seriesSummary struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Last float64 `json:"last"`
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	series, ok := snap.Correlations[r.URL.Query().Get("book")]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown correlation book")
		return
	}

	slice := dataset.CorrelationSlice(series, f)
	dates := make([]string, slice.Len())
	for i, d := range slice.Dates {
		dates[i] = d.Format("2006-01-02")
	}

	summaries := analytics.Summarize(slice)
	summary := make([]seriesSummary, len(summaries))
	for i, s := range summaries {
		summary[i] = seriesSummary{Name: s.Name, Min: s.Min, Max: s.Max, Mean: s.Mean, Last: s.Last}
	}

	respondJSON(w, http.StatusOK, correlationResponse{
		Dates:   dates,
		Values:  slice.Values,
		Summary: summary,
	})
}

type mstResponse struct {
	Nodes []string  `json:"nodes"`
	Edges []mstEdge `json:"edges"`
}

type mstEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Distance float64 `json:"distance"`
}

func (s *Server) handleMST(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := s.buildDistanceGraph(snap, f, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if g.NodeCount() == 0 {
		// Empty selection: nothing to lay out, nothing to reject.
		respondJSON(w, http.StatusOK, mstResponse{Nodes: []string{}, Edges: []mstEdge{}})
		return
	}

	tree, err := graph.MinimumSpanningTree(g)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	edges := make([]mstEdge, len(tree.Edges))
	for i, e := range tree.Edges {
		edges[i] = mstEdge{Source: tree.Nodes[e.A], Target: tree.Nodes[e.B], Distance: e.Weight}
	}
	respondJSON(w, http.StatusOK, mstResponse{Nodes: tree.Nodes, Edges: edges})
}

// buildDistanceGraph assembles the weighted graph for the requested
// mode: "correlation" (default) derives distances from pairwise series
// correlation over the filtered window; "exposure" uses absolute deltas
// of a per-portfolio exposure field.
func (s *Server) buildDistanceGraph(snap *dataset.Snapshot, f domain.ViewFilter, r *http.Request) (domain.Graph, error) {
	q := r.URL.Query()

	switch mode := q.Get("mode"); mode {
	case "", "correlation":
		series, ok := snap.Correlations[q.Get("book")]
		if !ok {
			return domain.Graph{}, errors.New("unknown correlation book")
		}
		slice := dataset.CorrelationSlice(series, f)
		if len(slice.Names) == 0 {
			return domain.Graph{}, nil
		}

		m, names, err := analytics.CorrelationMatrix(slice, slice.Names)
		if err != nil {
			return domain.Graph{}, err
		}
		g, err := graph.BuildComplete(names, graph.DistanceFromCorrelation(m))
		if err != nil {
			return domain.Graph{}, err
		}

		// Optional benchmark node: conditional distance of every
		// selected series to the reference series.
		if ref := q.Get("reference"); ref != "" {
			refDist, err := referenceDistances(slice, names, series, ref)
			if err != nil {
				return domain.Graph{}, err
			}
			return graph.WithReference(g, ref, refDist)
		}
		return g, nil

	case "exposure":
		values, names := exposureValues(snap.Exposures, f, q.Get("field"))
		if len(names) == 0 {
			return domain.Graph{}, nil
		}
		return graph.BuildComplete(names, graph.DistanceFromValues(values))

	default:
		return domain.Graph{}, errors.New("unknown mode: " + mode)
	}
}

func referenceDistances(slice *domain.CorrelationSeries, names []string, full *domain.CorrelationSeries, ref string) ([]float64, error) {
	refSlice := dataset.CorrelationSlice(full, domain.ViewFilter{
		Start:  sliceStart(slice),
		End:    sliceEnd(slice),
		Series: []string{ref},
	})
	if !refSlice.HasSeries(ref) {
		return nil, errors.New("unknown reference series: " + ref)
	}

	withRef := &domain.CorrelationSeries{
		Names:  append(append([]string(nil), names...), ref),
		Dates:  slice.Dates,
		Values: make(map[string][]float64, len(names)+1),
	}
	for _, n := range names {
		withRef.Values[n] = slice.Values[n]
	}
	withRef.Values[ref] = refSlice.Values[ref]

	m, _, err := analytics.CorrelationMatrix(withRef, withRef.Names)
	if err != nil {
		return nil, err
	}
	d := graph.DistanceFromCorrelation(m)

	refIdx := len(names)
	dist := make([]float64, len(names))
	for i := range names {
		dist[i] = d.At(i, refIdx)
	}
	return dist, nil
}

func sliceStart(s *domain.CorrelationSeries) time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Dates[0]
}

func sliceEnd(s *domain.CorrelationSeries) time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Dates[s.Len()-1]
}

// exposureValues reduces the filtered exposure table to one value per
// portfolio (mean over the window) for the requested field.
func exposureValues(records []domain.ExposureRecord, f domain.ViewFilter, field string) ([]float64, []string) {
	pick := func(rec domain.ExposureRecord) float64 { return rec.EquityExposure }
	switch field {
	case "", "equity":
		// default
	case "duration":
		pick = func(rec domain.ExposureRecord) float64 { return rec.Duration }
	case "spread_duration":
		pick = func(rec domain.ExposureRecord) float64 { return rec.SpreadDuration }
	default:
		return nil, nil
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if !f.MatchesDate(rec.Date) || !f.MatchesPortfolio(rec.Portfolio) {
			continue
		}
		if counts[rec.Portfolio] == 0 {
			order = append(order, rec.Portfolio)
		}
		sums[rec.Portfolio] += pick(rec)
		counts[rec.Portfolio]++
	}

	values := make([]float64, len(order))
	for i, portfolio := range order {
		values[i] = sums[portfolio] / float64(counts[portfolio])
	}
	return values, order
}
