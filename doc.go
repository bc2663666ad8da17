/*
Package eskit is a convenience layer for discovering, starting, and configuring
an Elasticsearch + Kibana stack, creating text-search indices with
language-aware analyzers, and bulk-loading tabular datasets into them. It
connects to a running stack, falls back to containers found (or started) via an
orchestrator, and keeps per-document ingestion failures from aborting a load.
*/
package eskit
