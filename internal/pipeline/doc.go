// Package pipeline runs the extract -> analyze -> report sequence for each
// work item and fans a batch of items out concurrently.
//
// A Pipeline executes Steps in order for one item, carrying intermediate
// results in a State. The first failing step ends the item; its error, or a
// recovered panic, is returned as a *StageError naming the capability that
// failed.
//
// An Orchestrator resolves the three configured plugin names through the
// capability registry, then runs one Pipeline per item, each in its own
// goroutine. Items share nothing mutable: every item gets fresh stage instances
// and its own State, and writes only its own slot of the outcome slice.
// A failed item never cancels or affects its siblings.
package pipeline
