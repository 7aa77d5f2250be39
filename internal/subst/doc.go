// Package subst builds the table of named command substitutions that test
// scripts reference instead of hard-coded executable paths.
//
// Every entry carries an explicit command kind decided at registration time:
//
//   - InTree: a tool built by the toolchain itself, resolved through a
//     toolpath.Resolver when the table is built.
//   - Ambient: an executable looked up on PATH by the test runner when a test
//     invokes it. A missing ambient tool is never reported here.
//   - Literal: a plain value inserted verbatim (e.g. %shlibext).
//
// A Builder collects entries during initialization; Build freezes them into an
// immutable Table that is shared read-only for the remainder of the run.
//
// # Token matching
//
// Table.Apply replaces tokens in script text. At each position the longest
// token wins, and a token never matches when it is glued to further token
// characters ([A-Za-z0-9_-]). %vast-cc therefore never fires inside %vast-cc1
// or %vast-ccx.
package subst
