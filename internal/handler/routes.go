package handler

// APIV1Prefix is the base path every public catalog route hangs off.
// Handlers and tests must build paths from this constant, never literals.
const APIV1Prefix = "/api/v1"
