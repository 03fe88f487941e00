/*
Package rules is the catalog of named constraints and predicates used by declarative
form files.

A rule is written as a single-key mapping whose key names the rule and whose value is
its argument:

	constraints:
	  - remove: "i"
	  - replace: {old: "-", new: " "}
	messages:
	  - when: {contains: "a"}
	    message: "Must not contain the letter 'a'"

Four families exist: field constraints, field predicates, global constraints and global
predicates. Default returns a Registry holding the built-in catalog; applications can
register their own factories on top of it.
*/
package rules
