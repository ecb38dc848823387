// Package preflight runs a TypeScript type checker and a linter against a
// single edited file and folds their output into one Result.
//
// A run has four sequential steps:
//   - resolve the project root (nearest ancestor holding tsconfig.json or package.json)
//   - run the type checker in the project root, when tsconfig.json exists
//   - run the linter on the target file
//   - merge the parsed output into a Result with a summary line
//
// Tool failures (timeout, missing executable, start errors) never abort a
// run. Each becomes a single synthetic entry in the affected list. Only a
// missing project root is fatal.
//
// Use the Checker type to run a check:
//
//	checker := preflight.New(preflight.WithMaxErrors(10))
//	res, err := checker.Run(ctx, preflight.Request{
//	    FilePath:       "src/app.ts",
//	    RunTypeChecker: true,
//	    RunLinter:      true,
//	})
package preflight
