// Command contigflow builds contigs from sequencing reads.
//
// Usage:
//
//	contigflow [command] [options]
//
// Commands:
//
//	assemble    Assemble one or more bins of reads
//	align       Compute the overlap of two sequences
//	kmer        Count k-mers in a read file
//	version     Show version information
package main

func main() {
	Execute()
}
