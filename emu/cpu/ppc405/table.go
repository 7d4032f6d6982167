/*
 * PCE - PowerPC 405 opcode tables
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package ppc405

// Operand layouts for the disassembler.
const (
	fNone   = iota
	fDAB    // rD,rA,rB
	fDA     // rD,rA
	fDAI    // rD,rA,SIMM
	fASU    // rA,rS,UIMM
	fASB    // rA,rS,rB
	fAS     // rA,rS
	fASH    // rA,rS,SH
	fRot    // rA,rS,SH,MB,ME
	fRotB   // rA,rS,rB,MB,ME
	fMem    // rD,d(rA)
	fMemX   // rD,rA,rB
	fCmp    // crfD,rA,rB
	fCmpI   // crfD,rA,SIMM
	fCmpU   // crfD,rA,UIMM
	fB      // target
	fBC     // BO,BI,target
	fBCR    // BO,BI
	fCR     // crbD,crbA,crbB
	fMcrf   // crfD,crfS
	fD      // rD
	fS      // rS
	fSPR    // rD,SPR
	fMTSPR  // SPR,rS
	fMtcrf  // FXM,rS
	fTrap   // TO,rA,rB
	fTrapI  // TO,rA,SIMM
	fNB     // rD,rA,NB
	fTLB    // rD,rA,WS
	fAB     // rA,rB
	fCrfD   // crfD
	fWrteei // E
	fHook   // argument
)

func (c *CPU) createTable() {
	for i := range c.table {
		c.table[i] = opEntry{name: "illegal", fn: c.undefined}
	}
	for i := range c.table19 {
		c.table19[i] = opEntry{name: "illegal", fn: c.undefined}
	}
	for i := range c.table31 {
		c.table31[i] = opEntry{name: "illegal", fn: c.undefined}
	}

	c.table[1] = opEntry{"hook", c.opHook, fHook}
	c.table[3] = opEntry{"twi", c.opTwi, fTrapI}
	c.table[7] = opEntry{"mulli", c.opMulli, fDAI}
	c.table[8] = opEntry{"subfic", c.opSubfic, fDAI}
	c.table[10] = opEntry{"cmpli", c.opCmpli, fCmpU}
	c.table[11] = opEntry{"cmpi", c.opCmpi, fCmpI}
	c.table[12] = opEntry{"addic", c.opAddic, fDAI}
	c.table[13] = opEntry{"addic.", c.opAddic, fDAI}
	c.table[14] = opEntry{"addi", c.opAddi, fDAI}
	c.table[15] = opEntry{"addis", c.opAddis, fDAI}
	c.table[16] = opEntry{"bc", c.opBc, fBC}
	c.table[17] = opEntry{"sc", c.opSc, fNone}
	c.table[18] = opEntry{"b", c.opB, fB}
	c.table[20] = opEntry{"rlwimi", c.opRlwimi, fRot}
	c.table[21] = opEntry{"rlwinm", c.opRlwinm, fRot}
	c.table[23] = opEntry{"rlwnm", c.opRlwnm, fRotB}
	c.table[24] = opEntry{"ori", c.opOri, fASU}
	c.table[25] = opEntry{"oris", c.opOris, fASU}
	c.table[26] = opEntry{"xori", c.opXori, fASU}
	c.table[27] = opEntry{"xoris", c.opXoris, fASU}
	c.table[28] = opEntry{"andi.", c.opAndi, fASU}
	c.table[29] = opEntry{"andis.", c.opAndis, fASU}
	c.table[32] = opEntry{"lwz", c.loadD(ldWord, false), fMem}
	c.table[33] = opEntry{"lwzu", c.loadD(ldWord, true), fMem}
	c.table[34] = opEntry{"lbz", c.loadD(ldByte, false), fMem}
	c.table[35] = opEntry{"lbzu", c.loadD(ldByte, true), fMem}
	c.table[36] = opEntry{"stw", c.storeD(stWord, false), fMem}
	c.table[37] = opEntry{"stwu", c.storeD(stWord, true), fMem}
	c.table[38] = opEntry{"stb", c.storeD(stByte, false), fMem}
	c.table[39] = opEntry{"stbu", c.storeD(stByte, true), fMem}
	c.table[40] = opEntry{"lhz", c.loadD(ldHalf, false), fMem}
	c.table[41] = opEntry{"lhzu", c.loadD(ldHalf, true), fMem}
	c.table[42] = opEntry{"lha", c.loadD(ldHalfAlg, false), fMem}
	c.table[43] = opEntry{"lhau", c.loadD(ldHalfAlg, true), fMem}
	c.table[44] = opEntry{"sth", c.storeD(stHalf, false), fMem}
	c.table[45] = opEntry{"sthu", c.storeD(stHalf, true), fMem}
	c.table[46] = opEntry{"lmw", c.opLmw, fMem}
	c.table[47] = opEntry{"stmw", c.opStmw, fMem}

	c.table19[0] = opEntry{"mcrf", c.opMcrf, fMcrf}
	c.table19[16] = opEntry{"bclr", c.opBclr, fBCR}
	c.table19[33] = opEntry{"crnor", c.crLogical(func(a, b bool) bool { return !(a || b) }), fCR}
	c.table19[50] = opEntry{"rfi", c.opRfi, fNone}
	c.table19[51] = opEntry{"rfci", c.opRfci, fNone}
	c.table19[129] = opEntry{"crandc", c.crLogical(func(a, b bool) bool { return a && !b }), fCR}
	c.table19[150] = opEntry{"isync", c.opNop, fNone}
	c.table19[193] = opEntry{"crxor", c.crLogical(func(a, b bool) bool { return a != b }), fCR}
	c.table19[225] = opEntry{"crnand", c.crLogical(func(a, b bool) bool { return !(a && b) }), fCR}
	c.table19[257] = opEntry{"crand", c.crLogical(func(a, b bool) bool { return a && b }), fCR}
	c.table19[289] = opEntry{"creqv", c.crLogical(func(a, b bool) bool { return a == b }), fCR}
	c.table19[417] = opEntry{"crorc", c.crLogical(func(a, b bool) bool { return a || !b }), fCR}
	c.table19[449] = opEntry{"cror", c.crLogical(func(a, b bool) bool { return a || b }), fCR}
	c.table19[528] = opEntry{"bcctr", c.opBcctr, fBCR}

	// XO forms appear twice, with and without OE.
	xo := func(n int, e opEntry) {
		c.table31[n] = e
		c.table31[n|0x200] = opEntry{e.name + "o", e.fn, e.form}
	}
	xo(8, opEntry{"subfc", c.opSubfc, fDAB})
	xo(10, opEntry{"addc", c.opAddc, fDAB})
	xo(40, opEntry{"subf", c.opSubf, fDAB})
	xo(104, opEntry{"neg", c.opNeg, fDA})
	xo(136, opEntry{"subfe", c.opSubfe, fDAB})
	xo(138, opEntry{"adde", c.opAdde, fDAB})
	xo(200, opEntry{"subfze", c.opSubfze, fDA})
	xo(202, opEntry{"addze", c.opAddze, fDA})
	xo(232, opEntry{"subfme", c.opSubfme, fDA})
	xo(234, opEntry{"addme", c.opAddme, fDA})
	xo(235, opEntry{"mullw", c.opMullw, fDAB})
	xo(266, opEntry{"add", c.opAdd, fDAB})
	xo(459, opEntry{"divwu", c.opDivwu, fDAB})
	xo(491, opEntry{"divw", c.opDivw, fDAB})

	c.table31[0] = opEntry{"cmp", c.opCmp, fCmp}
	c.table31[4] = opEntry{"tw", c.opTw, fTrap}
	c.table31[11] = opEntry{"mulhwu", c.opMulhwu, fDAB}
	c.table31[19] = opEntry{"mfcr", c.opMfcr, fD}
	c.table31[20] = opEntry{"lwarx", c.opLwarx, fMemX}
	c.table31[23] = opEntry{"lwzx", c.loadX(ldWord, false), fMemX}
	c.table31[24] = opEntry{"slw", c.opSlw, fASB}
	c.table31[26] = opEntry{"cntlzw", c.opCntlzw, fAS}
	c.table31[28] = opEntry{"and", c.logicX(func(s, b uint32) uint32 { return s & b }), fASB}
	c.table31[32] = opEntry{"cmpl", c.opCmpl, fCmp}
	c.table31[54] = opEntry{"dcbst", c.opCache, fAB}
	c.table31[55] = opEntry{"lwzux", c.loadX(ldWord, true), fMemX}
	c.table31[60] = opEntry{"andc", c.logicX(func(s, b uint32) uint32 { return s &^ b }), fASB}
	c.table31[75] = opEntry{"mulhw", c.opMulhw, fDAB}
	c.table31[83] = opEntry{"mfmsr", c.opMfmsr, fD}
	c.table31[86] = opEntry{"dcbf", c.opCache, fAB}
	c.table31[87] = opEntry{"lbzx", c.loadX(ldByte, false), fMemX}
	c.table31[119] = opEntry{"lbzux", c.loadX(ldByte, true), fMemX}
	c.table31[124] = opEntry{"nor", c.logicX(func(s, b uint32) uint32 { return ^(s | b) }), fASB}
	c.table31[131] = opEntry{"wrtee", c.opWrtee, fS}
	c.table31[144] = opEntry{"mtcrf", c.opMtcrf, fMtcrf}
	c.table31[146] = opEntry{"mtmsr", c.opMtmsr, fS}
	c.table31[150] = opEntry{"stwcx.", c.opStwcx, fMemX}
	c.table31[151] = opEntry{"stwx", c.storeX(stWord, false), fMemX}
	c.table31[163] = opEntry{"wrteei", c.opWrteei, fWrteei}
	c.table31[183] = opEntry{"stwux", c.storeX(stWord, true), fMemX}
	c.table31[215] = opEntry{"stbx", c.storeX(stByte, false), fMemX}
	c.table31[246] = opEntry{"dcbtst", c.opCache, fAB}
	c.table31[247] = opEntry{"stbux", c.storeX(stByte, true), fMemX}
	c.table31[262] = opEntry{"icbt", c.opCache, fAB}
	c.table31[278] = opEntry{"dcbt", c.opCache, fAB}
	c.table31[279] = opEntry{"lhzx", c.loadX(ldHalf, false), fMemX}
	c.table31[284] = opEntry{"eqv", c.logicX(func(s, b uint32) uint32 { return ^(s ^ b) }), fASB}
	c.table31[311] = opEntry{"lhzux", c.loadX(ldHalf, true), fMemX}
	c.table31[316] = opEntry{"xor", c.logicX(func(s, b uint32) uint32 { return s ^ b }), fASB}
	c.table31[323] = opEntry{"mfdcr", c.opMfdcr, fSPR}
	c.table31[339] = opEntry{"mfspr", c.opMfspr, fSPR}
	c.table31[343] = opEntry{"lhax", c.loadX(ldHalfAlg, false), fMemX}
	c.table31[370] = opEntry{"tlbia", c.opTlbia, fNone}
	c.table31[371] = opEntry{"mftb", c.opMftb, fSPR}
	c.table31[375] = opEntry{"lhaux", c.loadX(ldHalfAlg, true), fMemX}
	c.table31[407] = opEntry{"sthx", c.storeX(stHalf, false), fMemX}
	c.table31[412] = opEntry{"orc", c.logicX(func(s, b uint32) uint32 { return s | ^b }), fASB}
	c.table31[439] = opEntry{"sthux", c.storeX(stHalf, true), fMemX}
	c.table31[444] = opEntry{"or", c.logicX(func(s, b uint32) uint32 { return s | b }), fASB}
	c.table31[451] = opEntry{"mtdcr", c.opMtdcr, fMTSPR}
	c.table31[454] = opEntry{"dccci", c.opCachePriv, fAB}
	c.table31[467] = opEntry{"mtspr", c.opMtspr, fMTSPR}
	c.table31[470] = opEntry{"dcbi", c.opCachePriv, fAB}
	c.table31[476] = opEntry{"nand", c.logicX(func(s, b uint32) uint32 { return ^(s & b) }), fASB}
	c.table31[486] = opEntry{"dcread", c.opCachePriv, fDAB}
	c.table31[512] = opEntry{"mcrxr", c.opMcrxr, fCrfD}
	c.table31[533] = opEntry{"lswx", c.opLswx, fMemX}
	c.table31[534] = opEntry{"lwbrx", c.loadX(ldWordRev, false), fMemX}
	c.table31[536] = opEntry{"srw", c.opSrw, fASB}
	c.table31[566] = opEntry{"tlbsync", c.opCachePriv, fNone}
	c.table31[597] = opEntry{"lswi", c.opLswi, fNB}
	c.table31[598] = opEntry{"sync", c.opNop, fNone}
	c.table31[661] = opEntry{"stswx", c.opStswx, fMemX}
	c.table31[662] = opEntry{"stwbrx", c.storeX(stWordRev, false), fMemX}
	c.table31[725] = opEntry{"stswi", c.opStswi, fNB}
	c.table31[758] = opEntry{"dcba", c.opCache, fAB}
	c.table31[790] = opEntry{"lhbrx", c.loadX(ldHalfRev, false), fMemX}
	c.table31[792] = opEntry{"sraw", c.opSraw, fASB}
	c.table31[824] = opEntry{"srawi", c.opSrawi, fASH}
	c.table31[854] = opEntry{"eieio", c.opNop, fNone}
	c.table31[914] = opEntry{"tlbsx", c.opTlbsx, fMemX}
	c.table31[918] = opEntry{"sthbrx", c.storeX(stHalfRev, false), fMemX}
	c.table31[922] = opEntry{"extsh", c.opExtsh, fAS}
	c.table31[946] = opEntry{"tlbre", c.opTlbre, fTLB}
	c.table31[954] = opEntry{"extsb", c.opExtsb, fAS}
	c.table31[966] = opEntry{"iccci", c.opCachePriv, fAB}
	c.table31[978] = opEntry{"tlbwe", c.opTlbwe, fTLB}
	c.table31[982] = opEntry{"icbi", c.opCache, fAB}
	c.table31[998] = opEntry{"icread", c.opCachePriv, fAB}
	c.table31[1014] = opEntry{"dcbz", c.opDcbz, fAB}
}
