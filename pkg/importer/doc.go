// Package importer runs the bootstrap import of environment and policy set
// documents.
//
// A run enumerates every matching file under the document directory
// (by default <root>/data/environments/**/*.json), then for each file in turn:
//
//  1. reads the text (Scanner)
//  2. classifies it by its $type discriminator (document.Classifier)
//  3. for conditional policy sets, evaluates the Conditions against the
//     AppSettings section (condition.Evaluator)
//  4. invokes the matching import command (Dispatcher)
//
// Every file yields exactly one Outcome: imported, skipped or failed.
// Failures of an import command are isolated to their file. A malformed
// document, or a file that cannot be read, aborts the rest of the batch
// unless the bootstrap.on_malformed setting is "continue".
//
// # Basic Usage
//
//	imp, err := importer.NewImporter(&cfg.Bootstrap, s, provider, logger)
//	if err != nil {
//	    return err
//	}
//	result, err := imp.Run(ctx)
//	if result.State == importer.RunAborted {
//	    // the remaining files are in result.Unprocessed
//	}
package importer
