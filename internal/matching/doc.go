// Package matching decides which remote track, if any, should receive a local rating.
//
// [Score] counts agreeing secondary fields. [Reconciler] applies the title prefilter,
// keeps candidates scoring at least [MinScore], and resolves ambiguity by [Policy].
// Operator input comes from an injected [Confirmer] so nothing here touches a console.
package matching
