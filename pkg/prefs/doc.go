// Package prefs holds small persisted UI preferences, currently the
// theme (light, dark, or system).
package prefs
