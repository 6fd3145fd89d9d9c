// Package hcl provides the HCL implementation of config.Loader.
//
// A description file declares rules as labelled blocks. Target and source
// lists are evaluated once at load time; the print and run steps that make up
// a rule's action keep their expressions and are evaluated each time the
// action is invoked, so they can see the KBranch target/source pair.
package hcl
