package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- TEMPLATE TABLE (written by the external fetcher, read-only here)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS template SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS source_id ON template TYPE string;
    DEFINE FIELD IF NOT EXISTS title ON template TYPE string;
    DEFINE FIELD IF NOT EXISTS description ON template TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS category ON template TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS tags ON template TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS source_url ON template TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS nodes ON template TYPE array<object> DEFAULT [];
    REMOVE FIELD IF EXISTS nodes.* ON template;
    DEFINE FIELD nodes.* ON template TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS created_at ON template TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON template TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS template_source ON template FIELDS source_id UNIQUE;
    DEFINE INDEX IF NOT EXISTS template_created ON template FIELDS created_at;

    -- ==========================================================================
    -- TEMPLATE_ANALYTICS TABLE (one row per template, keyed by template_id)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS template_analytics SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS template_id ON template_analytics TYPE record<template>;
    DEFINE FIELD IF NOT EXISTS use_case_name ON template_analytics TYPE string;
    DEFINE FIELD IF NOT EXISTS use_case_description ON template_analytics TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS serviceable_name ON template_analytics TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS applicable_industries ON template_analytics TYPE array<object> DEFAULT [];
    REMOVE FIELD IF EXISTS applicable_industries.* ON template_analytics;
    DEFINE FIELD applicable_industries.* ON template_analytics TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS applicable_processes ON template_analytics TYPE array<object> DEFAULT [];
    REMOVE FIELD IF EXISTS applicable_processes.* ON template_analytics;
    DEFINE FIELD applicable_processes.* ON template_analytics TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS top_2_industries ON template_analytics TYPE array<object> DEFAULT [];
    REMOVE FIELD IF EXISTS top_2_industries.* ON template_analytics;
    DEFINE FIELD top_2_industries.* ON template_analytics TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS top_2_processes ON template_analytics TYPE array<object> DEFAULT [];
    REMOVE FIELD IF EXISTS top_2_processes.* ON template_analytics;
    DEFINE FIELD top_2_processes.* ON template_analytics TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS unique_node_types ON template_analytics TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS total_unique_node_types ON template_analytics TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS total_node_count ON template_analytics TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS node_breakdown ON template_analytics TYPE array<object> DEFAULT [];
    REMOVE FIELD IF EXISTS node_breakdown.* ON template_analytics;
    DEFINE FIELD node_breakdown.* ON template_analytics TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS base_price_inr ON template_analytics TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS complexity_multiplier ON template_analytics TYPE float DEFAULT 1.0;
    DEFINE FIELD IF NOT EXISTS final_price_inr ON template_analytics TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS enrichment_status ON template_analytics TYPE string DEFAULT "pending"
        ASSERT $value IN ["pending", "enriched", "failed"];
    DEFINE FIELD IF NOT EXISTS enrichment_method ON template_analytics TYPE string DEFAULT "rule-based"
        ASSERT $value IN ["ai", "rule-based", "hybrid"];
    DEFINE FIELD IF NOT EXISTS confidence_score ON template_analytics TYPE option<float>;
    DEFINE FIELD IF NOT EXISTS created_at ON template_analytics TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON template_analytics TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS analytics_template ON template_analytics FIELDS template_id UNIQUE;
    DEFINE INDEX IF NOT EXISTS analytics_status ON template_analytics FIELDS enrichment_status;
    DEFINE INDEX IF NOT EXISTS analytics_updated ON template_analytics FIELDS updated_at;

    -- ==========================================================================
    -- JOB_RUN LEDGER
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS job_run SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS job_type ON job_run TYPE string
        ASSERT $value IN ["enrichment", "template_fetch", "top2", "serviceable_name"];
    DEFINE FIELD IF NOT EXISTS status ON job_run TYPE string DEFAULT "running"
        ASSERT $value IN ["running", "completed", "failed", "stopped"];
    DEFINE FIELD IF NOT EXISTS result ON job_run TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS error ON job_run TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS started_at ON job_run TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON job_run TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS completed_at ON job_run TYPE option<datetime>;

    DEFINE INDEX IF NOT EXISTS job_run_started ON job_run FIELDS started_at;
    DEFINE INDEX IF NOT EXISTS job_run_status ON job_run FIELDS status;
`
