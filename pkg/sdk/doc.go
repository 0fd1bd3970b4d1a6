// Package fieldeval provides a Go client for scoring structured-extraction
// predictions against a reference corpus.
//
// A reference corpus is a JSON array of {"document_id", "fields"} records.
// Predictions use the same shape. The client flattens both into dotted field
// paths, scores numeric leaves by relative difference and everything else by
// Ratcliff/Obershelp text similarity, and returns an aggregate report.
//
// # In-process evaluation
//
//	m, err := fieldeval.Evaluate(reference, predictions)
//	fmt.Println(m.OverallScore)
//
// # Client with a configured reference and stored reports
//
//	client, _ := fieldeval.New(ctx,
//	    fieldeval.WithRedis("localhost:6379", ""),
//	    fieldeval.WithRedisGroundTruth("fieldeval:ground_truth"),
//	    fieldeval.WithReportPersistence("fieldeval:report:", 24*time.Hour),
//	)
//	defer client.Close()
//	rep, _ := client.EvaluateFile(ctx, "predictions.json")
//	stored, _ := client.StoredReport(ctx, rep.RunID)
package fieldeval
