package event

// Subject returns the NATS subject for a topic partitioned by a routing key
// (the aggregate id). Keying by subject keeps per-aggregate delivery ordered;
// there is no ordering guarantee across different aggregates.
func Subject(topic, key string) string {
	return topic + "." + key
}

// Wildcard returns the subscription pattern covering every routing key of a
// topic.
func Wildcard(topic string) string {
	return topic + ".>"
}
