package models

// ReconcileQueue is sent by partitioner in async mode and received by reconciler
type ReconcileQueue struct {
	PartitionKey     string `json:"partition_key"`
	QueryExecutionID string `json:"query_execution_id"`
}
