////////////////////////////////////////////////////////////////////////////////
// Okinoko NFT Sale: fixed price NFT sale for the vsc network
// Deploys its own collection, then mints one token per exact payment.
////////////////////////////////////////////////////////////////////////////////

package main

// main is left empty on purpose
func main() {

}
