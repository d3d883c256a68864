// Custodia is an evidence intake and exhibit lifecycle manager for digital
// forensics units.
//
// It validates intake submissions, assigns deterministic exhibit numbers,
// tracks extraction status through the evidence lifecycle, and exports the
// register for reporting and handover paperwork.
//
// Usage:
//
//	# Record a new exhibit
//	custodia intake --device-type Smartphone --reference CASE-2026-001 \
//	    --investigator "Jane Doe" --operator-first Jane --operator-last Doe
//
//	# List the register
//	custodia register list
//
//	# Search the register
//	custodia register list --search "CASE-2026"
//
//	# Export the register to CSV
//	custodia register list --format csv --output register.csv
//
//	# Update extraction status
//	custodia status 42 Completed
//
//	# Show the audit trail for an exhibit
//	custodia audit trail 42
//
//	# Show version information
//	custodia version
package main

func main() {
	Execute()
}
