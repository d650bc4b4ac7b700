// Command nftsale drives fixed-price NFT sales on a local single node chain.
package main

func main() {
	Execute()
}
